package domain

import "time"

// Answer is one journal entry for a question within an audit. The journal
// is append-only; repeated submissions for the same question accumulate.
type Answer struct {
	ID         string
	AuditID    string
	QuestionID string
	Answer     string
	Comments   string
	CreatedAt  time.Time
}
