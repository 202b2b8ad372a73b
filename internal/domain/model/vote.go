package model

import (
	"time"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
)

type Vote struct {
	ID        int64          `json:"id"`
	ReportID  int64          `json:"report_id"`
	Type      enums.VoteType `json:"type"`
	VoterHash string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}

// VoteTally is the per-report aggregate pushed to websocket clients
// after every vote.
type VoteTally struct {
	ReportID  int64 `json:"report_id"`
	UpVotes   int   `json:"up_votes"`
	DownVotes int   `json:"down_votes"`
}
