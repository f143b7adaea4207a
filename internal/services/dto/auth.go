package dto

import (
	"time"

	"rentify_backend/internal/models"
)

// RegisterRequest - запрос регистрации. Админа через регистрацию создать нельзя.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=tenant owner"`
	Phone    string `json:"phone" validate:"max=20"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse - ответ с токеном
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// UserResponse - пользователь без секретов
type UserResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Email              string                    `json:"email"`
	Role               models.UserRole           `json:"role"`
	Phone              string                    `json:"phone,omitempty"`
	IsVerified         bool                      `json:"isVerified"`
	SubscriptionID     *string                   `json:"subscriptionId,omitempty"`
	SubscriptionStatus models.SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionExpiry *time.Time                `json:"subscriptionExpiry,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role,
		Phone:              u.Phone,
		IsVerified:         u.IsVerified,
		SubscriptionID:     u.SubscriptionID,
		SubscriptionStatus: u.SubscriptionStatus,
		SubscriptionExpiry: u.SubscriptionExpiry,
		CreatedAt:          u.CreatedAt,
	}
}
