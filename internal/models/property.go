package models

import (
	"time"

	"gorm.io/datatypes"
)

type Money struct {
	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"type:varchar(3);default:'INR'" json:"currency"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `gorm:"not null;index" json:"city"`
	State   string `gorm:"not null" json:"state"`
	Country string `gorm:"default:'India'" json:"country"`
	Pincode string `gorm:"type:varchar(6);not null" json:"pincode"`
}

type Area struct {
	Size float64  `gorm:"not null" json:"size"`
	Unit AreaUnit `gorm:"type:varchar(10);default:'sqft'" json:"unit"`
}

type ContactInfo struct {
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	ShowContact bool   `json:"showContact"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type PropertyImage struct {
	URL        string `json:"url"`
	ProviderID string `json:"providerId"`
	IsPrimary  bool   `json:"isPrimary"`
}

type Property struct {
	BaseModel
	Title        string                             `gorm:"not null" json:"title"`
	Description  string                             `gorm:"type:text" json:"description"`
	OwnerID      string                             `gorm:"type:uuid;not null;index" json:"ownerId"`
	Rent         Money                              `gorm:"embedded;embeddedPrefix:rent_" json:"rent"`
	Deposit      float64                            `json:"deposit"`
	PropertyType PropertyType                       `gorm:"type:varchar(20);not null;index" json:"propertyType"`
	BHK          int                                `gorm:"column:bhk" json:"bhk"`
	Furnished    Furnishing                         `gorm:"type:varchar(20)" json:"furnished"`
	Amenities    datatypes.JSONSlice[string]        `json:"amenities"`
	Address      Address                            `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Area         Area                               `gorm:"embedded;embeddedPrefix:area_" json:"area"`
	Floor        *int                               `json:"floor,omitempty"`
	TotalFloors  *int                               `json:"totalFloors,omitempty"`
	Images       datatypes.JSONSlice[PropertyImage] `json:"images"`

	AvailableFrom *time.Time `json:"availableFrom,omitempty"`
	// No gorm default: a default would swallow an explicit false on insert.
	Available   bool        `gorm:"not null;index" json:"available"`
	Views       int64       `gorm:"not null;default:0" json:"views"`
	ContactInfo ContactInfo `gorm:"embedded;embeddedPrefix:contact_" json:"contactInfo"`
	Approved    bool        `gorm:"not null;default:false;index" json:"approved"`
	IsFeatured  bool        `gorm:"not null;default:false" json:"isFeatured"`
	Rating      Rating      `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`

	// Relations
	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}
