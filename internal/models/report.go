package models

import "time"

type Report struct {
	BaseModel
	PropertyID string       `gorm:"type:uuid;not null;index" json:"propertyId"`
	ReporterID string       `gorm:"type:uuid;not null;index" json:"reporterId"`
	Reason     ReportReason `gorm:"type:varchar(20);not null" json:"reason"`
	Details    string       `gorm:"type:text" json:"details,omitempty"`
	Status     ReportStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	ResolvedBy *string      `gorm:"type:uuid" json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time   `json:"resolvedAt,omitempty"`
}
