package models

type UserRole string
type SubscriptionStatus string
type PlanTier string
type PropertyType string
type Furnishing string
type AreaUnit string
type ReportReason string
type ReportStatus string

const (
	UserRoleTenant UserRole = "tenant"
	UserRoleOwner  UserRole = "owner"
	UserRoleAdmin  UserRole = "admin"

	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusInactive  SubscriptionStatus = "inactive"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	PlanBasic      PlanTier = "basic"
	PlanPremium    PlanTier = "premium"
	PlanEnterprise PlanTier = "enterprise"

	PropertyTypeApartment   PropertyType = "apartment"
	PropertyTypeHouse       PropertyType = "house"
	PropertyTypePG          PropertyType = "pg"
	PropertyTypeFlat        PropertyType = "flat"
	PropertyTypeVilla       PropertyType = "villa"
	PropertyTypeIndependent PropertyType = "independent"

	FurnishingFurnished     Furnishing = "furnished"
	FurnishingSemiFurnished Furnishing = "semi-furnished"
	FurnishingUnfurnished   Furnishing = "unfurnished"

	AreaUnitSqft AreaUnit = "sqft"
	AreaUnitSqm  AreaUnit = "sqm"
	AreaUnitSqyd AreaUnit = "sqyd"

	ReportReasonFraud         ReportReason = "fraud"
	ReportReasonIncorrectInfo ReportReason = "incorrect_info"
	ReportReasonUnavailable   ReportReason = "unavailable"
	ReportReasonOffensive     ReportReason = "offensive"
	ReportReasonOther         ReportReason = "other"

	ReportStatusOpen      ReportStatus = "open"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// CanListProperties: создавать объявления могут владельцы и админы.
func (r UserRole) CanListProperties() bool {
	return r == UserRoleOwner || r == UserRoleAdmin
}

// IsLive reports whether a subscription in this status blocks buying another one.
func (s SubscriptionStatus) IsLive() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusPending
}

// Допустимые значения, используются валидатором.
var (
	UserRoles            = []string{string(UserRoleTenant), string(UserRoleOwner), string(UserRoleAdmin)}
	SubscriptionStatuses = []string{
		string(SubscriptionStatusPending), string(SubscriptionStatusActive), string(SubscriptionStatusInactive),
		string(SubscriptionStatusExpired), string(SubscriptionStatusCancelled),
	}
	PlanTiers     = []string{string(PlanBasic), string(PlanPremium), string(PlanEnterprise)}
	PropertyTypes = []string{
		string(PropertyTypeApartment), string(PropertyTypeHouse), string(PropertyTypePG),
		string(PropertyTypeFlat), string(PropertyTypeVilla), string(PropertyTypeIndependent),
	}
	Furnishings   = []string{string(FurnishingFurnished), string(FurnishingSemiFurnished), string(FurnishingUnfurnished)}
	AreaUnits     = []string{string(AreaUnitSqft), string(AreaUnitSqm), string(AreaUnitSqyd)}
	ReportReasons = []string{
		string(ReportReasonFraud), string(ReportReasonIncorrectInfo), string(ReportReasonUnavailable),
		string(ReportReasonOffensive), string(ReportReasonOther),
	}
	ReportStatuses = []string{string(ReportStatusOpen), string(ReportStatusResolved), string(ReportStatusDismissed)}
)
