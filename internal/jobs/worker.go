package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	mongorepo "github.com/auditworks/audit-api/internal/infrastructure/mongo"
)

// ReminderHandler processes audit reminder tasks.
type ReminderHandler struct {
	audits *mongorepo.AuditRepository
	logger *log.Logger
}

func NewReminderHandler(audits *mongorepo.AuditRepository, logger *log.Logger) *ReminderHandler {
	return &ReminderHandler{audits: audits, logger: logger}
}

// HandleAuditReminder stamps reminderSentAt on the audit. An audit that was
// deleted or already moved past scheduled makes the task a successful no-op;
// reminders are only meaningful for upcoming work.
func (h *ReminderHandler) HandleAuditReminder(ctx context.Context, t *asynq.Task) error {
	var payload AuditReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	stamped, err := h.audits.MarkReminderSent(ctx, payload.AuditID, time.Now().UTC())
	if err != nil {
		h.logger.Printf("audit reminder failed: audit=%s err=%v", payload.AuditID, err)
		return err
	}
	if !stamped {
		h.logger.Printf("audit reminder skipped: audit=%s no longer scheduled", payload.AuditID)
		return nil
	}
	h.logger.Printf("audit reminder sent: audit=%s", payload.AuditID)
	return nil
}
