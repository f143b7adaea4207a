package models

import "time"

type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"` // всегда в нижнем регистре
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	Phone        string   `json:"phone,omitempty"`
	IsVerified   bool     `gorm:"default:false" json:"isVerified"`

	// Cached mirror of the current subscription, written only by the subscription service.
	SubscriptionID     *string            `gorm:"type:uuid" json:"subscriptionId,omitempty"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);default:'inactive'" json:"subscriptionStatus"`
	SubscriptionExpiry *time.Time         `json:"subscriptionExpiry,omitempty"`

	// Relations
	Properties []Property `gorm:"foreignKey:OwnerID" json:"-"`
}
