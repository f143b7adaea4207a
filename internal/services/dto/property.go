package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"rentify_backend/internal/models"
)

// ====================
//  Request DTOs
// ====================

// CreatePropertyRequest - каноническая форма запроса на создание объявления.
type CreatePropertyRequest struct {
	Title         string       `json:"title" validate:"required,min=3,max=200"`
	Description   string       `json:"description" validate:"max=5000"`
	Rent          MoneyInput   `json:"rent"`
	Deposit       float64      `json:"deposit" validate:"gte=0"`
	PropertyType  string       `json:"propertyType" validate:"required,property-type"`
	BHK           int          `json:"bhk" validate:"gte=0,lte=10"`
	Furnished     string       `json:"furnished" validate:"omitempty,furnishing"`
	Amenities     StringList   `json:"amenities" validate:"max=50,dive,max=50"`
	Address       AddressInput `json:"address"`
	Area          AreaInput    `json:"area"`
	Floor         *int         `json:"floor" validate:"omitempty,gte=0"`
	TotalFloors   *int         `json:"totalFloors" validate:"omitempty,gte=0"`
	AvailableFrom *Date        `json:"availableFrom"`
	Available     *bool        `json:"available"`
	ContactInfo   ContactInput `json:"contactInfo"`
	// PrimaryImage is the index of the uploaded image to flag primary; the first one otherwise.
	PrimaryImage *int `json:"primaryImage" validate:"omitempty,gte=0"`
}

// ToModel builds an unapproved listing owned by ownerID.
func (r *CreatePropertyRequest) ToModel(ownerID string) *models.Property {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	furnished := models.Furnishing(r.Furnished)
	if furnished == "" {
		furnished = models.FurnishingUnfurnished
	}

	return &models.Property{
		Title:         strings.TrimSpace(r.Title),
		Description:   strings.TrimSpace(r.Description),
		OwnerID:       ownerID,
		Rent:          r.Rent.toModel(),
		Deposit:       r.Deposit,
		PropertyType:  models.PropertyType(r.PropertyType),
		BHK:           r.BHK,
		Furnished:     furnished,
		Amenities:     datatypes.JSONSlice[string](append([]string{}, r.Amenities...)),
		Address:       r.Address.toModel(),
		Area:          r.Area.toModel(),
		Floor:         r.Floor,
		TotalFloors:   r.TotalFloors,
		Images:        datatypes.JSONSlice[models.PropertyImage]{},
		AvailableFrom: r.AvailableFrom.Ptr(),
		Available:     available,
		ContactInfo:   r.ContactInfo.toModel(),
		Approved:      false,
	}
}

func (m MoneyInput) toModel() models.Money {
	currency := strings.ToUpper(m.Currency)
	if currency == "" {
		currency = "INR"
	}
	return models.Money{Amount: m.Amount, Currency: currency}
}

func (a AddressInput) toModel() models.Address {
	country := strings.TrimSpace(a.Country)
	if country == "" {
		country = "India"
	}
	return models.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Country: country,
		Pincode: strings.TrimSpace(a.Pincode),
	}
}

func (a AreaInput) toModel() models.Area {
	unit := models.AreaUnit(a.Unit)
	if unit == "" {
		unit = models.AreaUnitSqft
	}
	return models.Area{Size: a.Size, Unit: unit}
}

func (c ContactInput) toModel() models.ContactInfo {
	return models.ContactInfo{
		Phone:       strings.TrimSpace(c.Phone),
		Email:       strings.ToLower(strings.TrimSpace(c.Email)),
		ShowContact: c.ShowContact,
	}
}

// UpdatePropertyRequest - частичное обновление; nil означает "не менять".
// Владелец объявления не входит в запрос и не может быть изменен.
type UpdatePropertyRequest struct {
	Title         *string       `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string       `json:"description" validate:"omitempty,max=5000"`
	Rent          *MoneyInput   `json:"rent"`
	Deposit       *float64      `json:"deposit" validate:"omitempty,gte=0"`
	PropertyType  *string       `json:"propertyType" validate:"omitempty,property-type"`
	BHK           *int          `json:"bhk" validate:"omitempty,gte=0,lte=10"`
	Furnished     *string       `json:"furnished" validate:"omitempty,furnishing"`
	Amenities     *StringList   `json:"amenities" validate:"omitempty,max=50,dive,max=50"`
	Address       *AddressInput `json:"address"`
	Area          *AreaInput    `json:"area"`
	Floor         *int          `json:"floor" validate:"omitempty,gte=0"`
	TotalFloors   *int          `json:"totalFloors" validate:"omitempty,gte=0"`
	AvailableFrom *Date         `json:"availableFrom"`
	Available     *bool         `json:"available"`
	ContactInfo   *ContactInput `json:"contactInfo"`
}

// ToUpdates maps the supplied fields onto column names.
func (r *UpdatePropertyRequest) ToUpdates() map[string]interface{} {
	updates := make(map[string]interface{})
	if r.Title != nil {
		updates["title"] = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		updates["description"] = strings.TrimSpace(*r.Description)
	}
	if r.Rent != nil {
		rent := r.Rent.toModel()
		updates["rent_amount"] = rent.Amount
		updates["rent_currency"] = rent.Currency
	}
	if r.Deposit != nil {
		updates["deposit"] = *r.Deposit
	}
	if r.PropertyType != nil {
		updates["property_type"] = *r.PropertyType
	}
	if r.BHK != nil {
		updates["bhk"] = *r.BHK
	}
	if r.Furnished != nil {
		updates["furnished"] = *r.Furnished
	}
	if r.Amenities != nil {
		updates["amenities"] = datatypes.JSONSlice[string](append([]string{}, (*r.Amenities)...))
	}
	if r.Address != nil {
		addr := r.Address.toModel()
		updates["address_street"] = addr.Street
		updates["address_city"] = addr.City
		updates["address_state"] = addr.State
		updates["address_country"] = addr.Country
		updates["address_pincode"] = addr.Pincode
	}
	if r.Area != nil {
		area := r.Area.toModel()
		updates["area_size"] = area.Size
		updates["area_unit"] = area.Unit
	}
	if r.Floor != nil {
		updates["floor"] = *r.Floor
	}
	if r.TotalFloors != nil {
		updates["total_floors"] = *r.TotalFloors
	}
	if r.AvailableFrom != nil {
		updates["available_from"] = r.AvailableFrom.Ptr()
	}
	if r.Available != nil {
		updates["available"] = *r.Available
	}
	if r.ContactInfo != nil {
		contact := r.ContactInfo.toModel()
		updates["contact_phone"] = contact.Phone
		updates["contact_email"] = contact.Email
		updates["contact_show_contact"] = contact.ShowContact
	}
	return updates
}

// Поля формы, которые всегда являются строками. Остальные значения
// (числа, bool, вложенные JSON) передаются декодеру как есть.
var formStringFields = map[string]bool{
	"title":         true,
	"description":   true,
	"propertyType":  true,
	"furnished":     true,
	"availableFrom": true,
	"rent":          true,
	"address":       true,
	"area":          true,
	"contactInfo":   true,
	"amenities":     true,
}

// FormToJSON turns multipart form values into the JSON document the JSON
// transport would have sent, so both go through the same decoder.
func FormToJSON(values map[string][]string) ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		value := strings.TrimSpace(vals[0])
		if key == "amenities" && len(vals) > 1 {
			raw, err := json.Marshal(vals)
			if err != nil {
				return nil, err
			}
			doc[key] = raw
			continue
		}
		if value == "" {
			continue
		}
		if !formStringFields[key] && json.Valid([]byte(value)) {
			doc[key] = json.RawMessage(value)
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		doc[key] = raw
	}
	return json.Marshal(doc)
}

// DecodePropertyForm is FormToJSON followed by decoding into the canonical request.
func DecodePropertyForm(values map[string][]string) (*CreatePropertyRequest, error) {
	raw, err := FormToJSON(values)
	if err != nil {
		return nil, err
	}
	var req CreatePropertyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode property form: %w", err)
	}
	return &req, nil
}

// ====================
//  Response DTOs
// ====================

// OwnerSummary - публичные данные владельца. Пароль никогда не попадает сюда.
type OwnerSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

type PropertyResponse struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	OwnerID       string                 `json:"ownerId"`
	Owner         *OwnerSummary          `json:"owner,omitempty"`
	Rent          models.Money           `json:"rent"`
	Deposit       float64                `json:"deposit"`
	PropertyType  models.PropertyType    `json:"propertyType"`
	BHK           int                    `json:"bhk"`
	Furnished     models.Furnishing      `json:"furnished"`
	Amenities     []string               `json:"amenities"`
	Address       models.Address         `json:"address"`
	Area          models.Area            `json:"area"`
	Floor         *int                   `json:"floor,omitempty"`
	TotalFloors   *int                   `json:"totalFloors,omitempty"`
	Images        []models.PropertyImage `json:"images"`
	AvailableFrom *time.Time             `json:"availableFrom,omitempty"`
	Available     bool                   `json:"available"`
	Views         int64                  `json:"views"`
	ContactInfo   models.ContactInfo     `json:"contactInfo"`
	Approved      bool                   `json:"approved"`
	IsFeatured    bool                   `json:"isFeatured"`
	Rating        models.Rating          `json:"rating"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// NewPropertyResponse renders a listing. Without contact access the contact
// object collapses to {showContact: false}: phone and email are not sent at all.
func NewPropertyResponse(p *models.Property, contactVisible bool) PropertyResponse {
	contact := models.ContactInfo{ShowContact: false}
	if contactVisible || p.ContactInfo.ShowContact {
		contact = p.ContactInfo
	}

	resp := PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		OwnerID:       p.OwnerID,
		Rent:          p.Rent,
		Deposit:       p.Deposit,
		PropertyType:  p.PropertyType,
		BHK:           p.BHK,
		Furnished:     p.Furnished,
		Amenities:     append([]string{}, p.Amenities...),
		Address:       p.Address,
		Area:          p.Area,
		Floor:         p.Floor,
		TotalFloors:   p.TotalFloors,
		Images:        append([]models.PropertyImage{}, p.Images...),
		AvailableFrom: p.AvailableFrom,
		Available:     p.Available,
		Views:         p.Views,
		ContactInfo:   contact,
		Approved:      p.Approved,
		IsFeatured:    p.IsFeatured,
		Rating:        p.Rating,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Owner != nil {
		resp.Owner = &OwnerSummary{
			ID:         p.Owner.ID,
			Name:       p.Owner.Name,
			Email:      p.Owner.Email,
			Phone:      p.Owner.Phone,
			IsVerified: p.Owner.IsVerified,
		}
	}
	return resp
}

// PropertyDetailResponse - результат getPropertyDetail.
type PropertyDetailResponse struct {
	Property       PropertyResponse `json:"property"`
	ContactVisible bool             `json:"contactVisible"`
}

// AccessResponse - результат checkAccess.
type AccessResponse struct {
	HasAccess bool `json:"hasAccess"`
	// Grandfathered is set when access comes only from an earlier view made while subscribed.
	Grandfathered bool `json:"grandfathered,omitempty"`
}
