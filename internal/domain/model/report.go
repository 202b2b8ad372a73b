package model

import (
	"time"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
)

type Report struct {
	ID               int64              `json:"id"`
	PhoneNumber      string             `json:"phone_number"`
	Description      string             `json:"description"`
	ScamType         enums.ScamType     `json:"scam_type"`
	Status           enums.ReportStatus `json:"status"`
	Verified         bool               `json:"verified"`
	EvidenceKey      string             `json:"-"`
	EvidenceURL      string             `json:"evidence_url,omitempty"`
	UpVotes          int                `json:"up_votes"`
	DownVotes        int                `json:"down_votes"`
	ModerationAction enums.ModerationAction `json:"-"`
	ModerationReason string             `json:"-"`
	ModerationScore  float64            `json:"-"`
	RequiresReview   bool               `json:"-"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
