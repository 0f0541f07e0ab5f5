package jobs

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// ReminderScheduler enqueues audit reminder tasks. A nil scheduler is a
// valid no-op, used when no Redis address is configured.
type ReminderScheduler struct {
	client *asynq.Client
	logger *log.Logger
}

// NewReminderScheduler returns nil when redisAddr is empty; the reminder
// pipeline is optional at runtime.
func NewReminderScheduler(redisAddr string, logger *log.Logger) *ReminderScheduler {
	if redisAddr == "" {
		logger.Println("redis address not set, audit reminders disabled")
		return nil
	}
	return &ReminderScheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		logger: logger,
	}
}

// ScheduleReminder enqueues a reminder to run at the audit's scheduled
// time. Times already past run immediately.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, auditID string, at time.Time) error {
	if s == nil {
		return nil
	}
	task, err := NewAuditReminderTask(auditID)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(at))
	if err != nil {
		s.logger.Printf("failed to enqueue audit reminder for %s: %v", auditID, err)
		return err
	}
	s.logger.Printf("audit reminder queued: audit=%s task=%s at=%s", auditID, info.ID, at.Format(time.RFC3339))
	return nil
}

// Close releases the underlying queue connection.
func (s *ReminderScheduler) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
