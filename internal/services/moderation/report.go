package moderation

import "strings"

// Report is the canonical submission shape entering the pipeline. It is
// immutable for the duration of moderation; persistence identity is assigned
// by the storage layer only after a verdict exists.
type Report struct {
	PhoneNumber string
	Description string
	ScamType    string
}

// ReportInput mirrors the submission payload. Older clients send
// phone/company instead of phone_number/scam_type, so both alias pairs are
// accepted at the boundary.
type ReportInput struct {
	PhoneNumber string
	Phone       string
	Description string
	ScamType    string
	Company     string
}

func NormalizeReport(in ReportInput) Report {
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		phone = strings.TrimSpace(in.Phone)
	}

	scamType := strings.TrimSpace(in.ScamType)
	if scamType == "" {
		scamType = strings.TrimSpace(in.Company)
	}

	return Report{
		PhoneNumber: phone,
		Description: in.Description,
		ScamType:    strings.ToLower(scamType),
	}
}
