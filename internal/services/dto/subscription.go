package dto

import (
	"math"
	"time"

	"rentify_backend/internal/models"
)

type CreateSubscriptionRequest struct {
	Plan string `json:"plan" validate:"required,plan-tier"`
	// PaymentMethod is the opaque payment method reference handed to the gateway.
	PaymentMethod string `json:"paymentMethod" validate:"required,max=200"`
}

// UpdateSubscriptionStatusRequest - admin-only. pending выставляется только системой.
type UpdateSubscriptionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive expired cancelled"`
}

type SubscriptionResponse struct {
	ID               string                    `json:"id"`
	UserID           string                    `json:"userId"`
	Plan             models.PlanTier           `json:"plan"`
	PlanSnapshot     models.PlanSnapshot       `json:"planSnapshot"`
	StartDate        time.Time                 `json:"startDate"`
	EndDate          time.Time                 `json:"endDate"`
	Status           models.SubscriptionStatus `json:"status"`
	PaymentReference string                    `json:"paymentReference,omitempty"`
	CancelledAt      *time.Time                `json:"cancelledAt,omitempty"`
	// IsActive is computed against the current time, not read from status alone.
	IsActive      bool `json:"isActive"`
	DaysRemaining int  `json:"daysRemaining"`
}

func NewSubscriptionResponse(s *models.Subscription, now time.Time) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		Plan:             s.Plan,
		PlanSnapshot:     s.PlanSnapshot.Data(),
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		Status:           s.Status,
		PaymentReference: s.PaymentReference,
		CancelledAt:      s.CancelledAt,
		IsActive:         s.IsActiveAt(now),
	}
	if resp.IsActive {
		resp.DaysRemaining = int(math.Ceil(s.EndDate.Sub(now).Hours() / 24))
	}
	return resp
}

// MySubscriptionResponse - текущая подписка пользователя; Subscription пуст, если ее нет.
type MySubscriptionResponse struct {
	Subscription *SubscriptionResponse     `json:"subscription"`
	Status       models.SubscriptionStatus `json:"status"`
}

type ExpireLapsedResponse struct {
	Expired int64 `json:"expired"`
}
