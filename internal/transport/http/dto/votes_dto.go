package dto

type VoteRequest struct {
	Type string `json:"type"`
}

type VoteResponse struct {
	ReportID  int64 `json:"report_id"`
	UpVotes   int   `json:"up_votes"`
	DownVotes int   `json:"down_votes"`
}
