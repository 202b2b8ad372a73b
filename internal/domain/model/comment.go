package model

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	ReportID  int64     `json:"report_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
