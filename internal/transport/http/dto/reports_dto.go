package dto

import "github.com/Segsoto/EstafadoresCR/internal/domain/model"

type SubmitReportRequest struct {
	PhoneNumber string `json:"phone_number"`
	Phone       string `json:"phone,omitempty"`
	Description string `json:"description"`
	ScamType    string `json:"scam_type,omitempty"`
	Company     string `json:"company,omitempty"`
}

type ModerationOutcome struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type SubmitReportResponse struct {
	OK         bool              `json:"ok"`
	Message    string            `json:"message"`
	Report     model.Report      `json:"report"`
	Moderation ModerationOutcome `json:"moderation"`
}

type ReportListResponse struct {
	Reports []model.Report `json:"reports"`
	Page    int            `json:"page"`
}

type SearchResponse struct {
	Reports []model.Report `json:"reports"`
	Query   string         `json:"query"`
}
