package domain

import "time"

// MentionRow is one exported line of the mention report
type MentionRow struct {
	Ticker   string `json:"ticker" validate:"required"`
	Mentions int    `json:"mentions" validate:"min=0"`
}

// MentionReport is the exported result of one run
type MentionReport struct {
	RunID        string       `json:"run_id"`
	GeneratedAt  time.Time    `json:"generated_at"`
	SubmissionID string       `json:"submission_id"`
	Rows         []MentionRow `json:"rows"`
}
