package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"rentify_backend/internal/logger"
	"rentify_backend/internal/middleware"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/services"
	"rentify_backend/internal/services/dto"
	"rentify_backend/internal/storage"
	"rentify_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// imagesField - имя поля multipart-формы с фотографиями.
const imagesField = "images"

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler:     base,
		propertyService: propertyService,
	}
}

// Search - публичный поиск. Некорректные фильтры отклоняются целиком.
func (h *PropertyHandler) Search(c *gin.Context) {
	req, errs := dto.ParsePropertySearch(c.Request.URL.Query(), repositories.SortKeys())
	if len(errs) > 0 {
		logger.CtxWarn(c.Request.Context(), "Invalid search parameters", "errors", errs)
		apperrors.HandleError(c, apperrors.ValidationError(errs))
		return
	}

	page, err := h.propertyService.SearchProperties(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetByID - карточка объекта. Токен необязателен: анонимный просмотр тоже считается.
func (h *PropertyHandler) GetByID(c *gin.Context) {
	detail, err := h.propertyService.GetPropertyDetail(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *PropertyHandler) CheckAccess(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	access, err := h.propertyService.CheckAccess(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}

// Create accepts either a JSON body or a multipart form with the same fields
// plus image files under "images".
func (h *PropertyHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var (
		req    *dto.CreatePropertyRequest
		images []storage.ImageUpload
	)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
			return
		}
		req, err = dto.DecodePropertyForm(form.Value)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
			return
		}
		var closeAll func()
		images, closeAll, err = openImages(form.File[imagesField])
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Unreadable image: "+err.Error()))
			return
		}
		defer closeAll()
	} else {
		req = &dto.CreatePropertyRequest{}
		if err := c.ShouldBindJSON(req); err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
			return
		}
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), actor, req, images)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

func openImages(files []*multipart.FileHeader) ([]storage.ImageUpload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	uploads := make([]storage.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, storage.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}
	return uploads, closeAll, nil
}

func (h *PropertyHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req dto.UpdatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	if err := h.propertyService.DeleteProperty(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Property deleted")
}

func (h *PropertyHandler) Mine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, limit, ok := h.Pagination(c)
	if !ok {
		return
	}

	result, err := h.propertyService.MyProperties(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
