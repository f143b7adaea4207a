package dto

import (
	"time"

	"rentify_backend/internal/models"
)

type CreateReportRequest struct {
	Reason  string `json:"reason" validate:"required,report-reason"`
	Details string `json:"details" validate:"max=2000"`
}

type ResolveReportRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved dismissed"`
}

type ReportResponse struct {
	ID         string              `json:"id"`
	PropertyID string              `json:"propertyId"`
	ReporterID string              `json:"reporterId"`
	Reason     models.ReportReason `json:"reason"`
	Details    string              `json:"details,omitempty"`
	Status     models.ReportStatus `json:"status"`
	ResolvedBy *string             `json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time          `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func NewReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		ReporterID: r.ReporterID,
		Reason:     r.Reason,
		Details:    r.Details,
		Status:     r.Status,
		ResolvedBy: r.ResolvedBy,
		ResolvedAt: r.ResolvedAt,
		CreatedAt:  r.CreatedAt,
	}
}
