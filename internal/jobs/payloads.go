package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TypeAuditReminder fires around an audit's scheduled time.
const TypeAuditReminder = "audit:reminder"

// AuditReminderPayload identifies the audit to remind about.
type AuditReminderPayload struct {
	AuditID string `json:"auditId"`
}

// NewAuditReminderTask builds the reminder task for one audit.
func NewAuditReminderTask(auditID string) (*asynq.Task, error) {
	payload, err := json.Marshal(AuditReminderPayload{AuditID: auditID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAuditReminder, payload), nil
}
