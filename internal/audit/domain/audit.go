package domain

import (
	"sort"
	"strings"
	"time"
)

// AuditStatus is the lifecycle state of an audit.
type AuditStatus string

const (
	StatusScheduled  AuditStatus = "scheduled"
	StatusDownloaded AuditStatus = "downloaded"
	StatusInProgress AuditStatus = "in_progress"
	StatusCompleted  AuditStatus = "completed"
	StatusCancelled  AuditStatus = "cancelled"
)

// statusRank orders the forward path. Cancelled sits outside the path.
var statusRank = map[AuditStatus]int{
	StatusScheduled:  0,
	StatusDownloaded: 1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// ParseAuditStatus validates a raw status string.
func ParseAuditStatus(raw string) (AuditStatus, error) {
	switch s := AuditStatus(strings.TrimSpace(raw)); s {
	case StatusScheduled, StatusDownloaded, StatusInProgress, StatusCompleted, StatusCancelled:
		return s, nil
	default:
		return "", NewValidationError("status", "must be one of scheduled, downloaded, in_progress, completed, cancelled")
	}
}

// Terminal reports whether no further transitions are allowed.
func (s AuditStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal move from s. Same-status
// is allowed (a no-op for the caller), the forward path advances one step
// at a time, and cancel is reachable from any non-terminal state.
func (s AuditStatus) CanTransitionTo(next AuditStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	return okFrom && okTo && to == from+1
}

// Audit is a scheduled inspection assigned to a user. SectionIDs is the
// link-set of attached sections: a set, never holding duplicates.
type Audit struct {
	ID             string
	Title          string
	Description    string
	AssignedTo     string
	ScheduledAt    time.Time
	DownloadedAt   *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	ReminderSentAt *time.Time
	Status         AuditStatus
	SectionIDs     []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Transition moves the audit to next, stamping the entry timestamp the
// first time each state is reached. A same-status call changes nothing.
// Illegal moves return InvalidTransitionError.
func (a *Audit) Transition(next AuditStatus, now time.Time) error {
	if a.Status == next {
		return nil
	}
	if !a.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: a.Status, To: next}
	}
	a.Status = next
	switch next {
	case StatusDownloaded:
		if a.DownloadedAt == nil {
			a.DownloadedAt = &now
		}
	case StatusInProgress:
		if a.StartedAt == nil {
			a.StartedAt = &now
		}
	case StatusCompleted:
		if a.CompletedAt == nil {
			a.CompletedAt = &now
		}
	}
	return nil
}

// NormalizeSectionIDs collapses duplicates and returns a sorted copy, the
// canonical form for link-set comparison and storage.
func NormalizeSectionIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
