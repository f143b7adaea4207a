package handlers

import (
	"net/http"
	"strings"

	"rentify_backend/internal/services"
	"rentify_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler - управление пользователями и модерация объявлений.
type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	page, limit, ok := h.Pagination(c)
	if !ok {
		return
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), actor, dto.UserListRequest{
		Role:   strings.TrimSpace(c.Query("role")),
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.adminService.UpdateUserRole(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) ListPendingProperties(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	page, limit, ok := h.Pagination(c)
	if !ok {
		return
	}

	result, err := h.adminService.ListPendingProperties(c.Request.Context(), actor, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ApproveProperty(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req dto.SetApprovalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.adminService.ApproveProperty(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *AdminHandler) FeatureProperty(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req dto.SetFeaturedRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.adminService.SetFeatured(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}
