package domain

import "time"

// Section is a reusable bundle of questions attachable to many audits.
type Section struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SectionSummary is a section with its live question count, for listings
// and audit detail views.
type SectionSummary struct {
	Section
	QuestionCount int64
}

// SectionDetail is a section with its questions in display order.
type SectionDetail struct {
	Section
	Questions []Question
}
