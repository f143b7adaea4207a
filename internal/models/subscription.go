package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlanSnapshot is the plan as it was sold; later catalog changes do not touch it.
type PlanSnapshot struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"durationDays"`
	Features     []string `json:"features"`
}

type Subscription struct {
	BaseModel
	UserID           string                           `gorm:"type:uuid;not null;index" json:"userId"`
	Plan             PlanTier                         `gorm:"type:varchar(20);not null" json:"plan"`
	PlanSnapshot     datatypes.JSONType[PlanSnapshot] `json:"planSnapshot"`
	StartDate        time.Time                        `gorm:"not null" json:"startDate"`
	EndDate          time.Time                        `gorm:"not null;index" json:"endDate"`
	Status           SubscriptionStatus               `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentReference string                           `json:"paymentReference"`
	CancelledAt      *time.Time                       `json:"cancelledAt,omitempty"`
}

// IsActiveAt is the live entitlement check: status active and not yet lapsed.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && !s.EndDate.Before(now)
}
