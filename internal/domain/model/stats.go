package model

import "github.com/Segsoto/EstafadoresCR/internal/domain/enums"

type ScamTypeCount struct {
	ScamType enums.ScamType `json:"scam_type"`
	Count    int            `json:"count"`
}

type Stats struct {
	TotalReports    int             `json:"total_reports"`
	ApprovedReports int             `json:"approved_reports"`
	PendingReports  int             `json:"pending_reports"`
	VerifiedReports int             `json:"verified_reports"`
	ByScamType      []ScamTypeCount `json:"by_scam_type"`
}
