package domain

// User is reference data for audit assignment. Managed out of band.
type User struct {
	ID    string
	Name  string
	Email string
}

// AuditDetail is an audit joined with its attached sections and assignee.
type AuditDetail struct {
	Audit
	Sections []SectionSummary
	Assignee *User
}
