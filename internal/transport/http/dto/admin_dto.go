package dto

import "github.com/Segsoto/EstafadoresCR/internal/domain/model"

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
}

// AdminReport exposes the moderation fields hidden from the public
// feed serialization.
type AdminReport struct {
	model.Report
	ModerationAction string  `json:"moderation_action"`
	ModerationReason string  `json:"moderation_reason"`
	ModerationScore  float64 `json:"moderation_score"`
	RequiresReview   bool    `json:"requires_review"`
}

func NewAdminReport(rep model.Report) AdminReport {
	return AdminReport{
		Report:           rep,
		ModerationAction: string(rep.ModerationAction),
		ModerationReason: rep.ModerationReason,
		ModerationScore:  rep.ModerationScore,
		RequiresReview:   rep.RequiresReview,
	}
}

func NewAdminReports(reports []model.Report) []AdminReport {
	out := make([]AdminReport, 0, len(reports))
	for _, rep := range reports {
		out = append(out, NewAdminReport(rep))
	}
	return out
}

type AdminListResponse struct {
	Reports []AdminReport `json:"reports"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type VerifyRequest struct {
	Verified bool `json:"verified"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
