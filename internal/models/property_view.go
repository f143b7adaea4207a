package models

import "time"

// PropertyView is the per (user, property) access audit record. Re-viewing
// updates the row in place.
type PropertyView struct {
	BaseModel
	UserID             string             `gorm:"type:uuid;not null;uniqueIndex:idx_property_views_user_property" json:"userId"`
	PropertyID         string             `gorm:"type:uuid;not null;uniqueIndex:idx_property_views_user_property;index:idx_property_views_property" json:"propertyId"`
	ViewedAt           time.Time          `gorm:"not null" json:"viewedAt"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);not null" json:"subscriptionStatus"`
}
