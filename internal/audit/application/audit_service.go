package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

type auditService struct {
	audits    AuditRepository
	sections  SectionRepository
	answers   AnswerRepository
	users     UserRepository
	reminders ReminderScheduler
}

func NewAuditService(audits AuditRepository, sections SectionRepository, answers AnswerRepository, users UserRepository, reminders ReminderScheduler) AuditService {
	return &auditService{audits: audits, sections: sections, answers: answers, users: users, reminders: reminders}
}

func (s *auditService) List(ctx context.Context, filter AuditFilter, paging Paging) (*AuditPage, error) {
	paging = paging.Normalize()
	audits, total, err := s.audits.Find(ctx, filter, paging)
	if err != nil {
		return nil, err
	}
	items := make([]auditdomain.AuditDetail, 0, len(audits))
	for i := range audits {
		detail, err := s.assemble(ctx, &audits[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *detail)
	}
	return &AuditPage{Items: items, PageInfo: NewPageInfo(paging, total)}, nil
}

func (s *auditService) Detail(ctx context.Context, id string) (*auditdomain.AuditDetail, error) {
	audit, err := s.audits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, audit)
}

func (s *auditService) Create(ctx context.Context, cmd UpsertAuditCommand) (*auditdomain.Audit, error) {
	audit, err := s.buildAudit(ctx, cmd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	audit.Status = auditdomain.StatusScheduled
	if cmd.Status != "" {
		status, err := auditdomain.ParseAuditStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
		if err := audit.Transition(status, now); err != nil {
			return nil, err
		}
	}
	audit.CreatedAt = now
	audit.UpdatedAt = now
	if err := s.audits.Create(ctx, audit); err != nil {
		return nil, err
	}
	if audit.Status == auditdomain.StatusScheduled {
		s.scheduleReminder(ctx, audit)
	}
	return audit, nil
}

func (s *auditService) Update(ctx context.Context, id string, cmd UpsertAuditCommand) (*auditdomain.Audit, error) {
	existing, err := s.audits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	audit, err := s.buildAudit(ctx, cmd)
	if err != nil {
		return nil, err
	}
	audit.ID = existing.ID
	audit.Status = existing.Status
	audit.SectionIDs = existing.SectionIDs
	audit.DownloadedAt = existing.DownloadedAt
	audit.StartedAt = existing.StartedAt
	audit.CompletedAt = existing.CompletedAt
	audit.ReminderSentAt = existing.ReminderSentAt
	audit.CreatedAt = existing.CreatedAt
	audit.UpdatedAt = time.Now().UTC()

	if cmd.Status != "" {
		status, err := auditdomain.ParseAuditStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
		if err := audit.Transition(status, audit.UpdatedAt); err != nil {
			return nil, err
		}
	}
	if err := s.audits.Update(ctx, audit); err != nil {
		return nil, err
	}
	rescheduled := !audit.ScheduledAt.Equal(existing.ScheduledAt)
	if rescheduled && audit.Status == auditdomain.StatusScheduled {
		s.scheduleReminder(ctx, audit)
	}
	return audit, nil
}

func (s *auditService) Delete(ctx context.Context, id string) error {
	if _, err := s.audits.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.answers.DeleteByAudit(ctx, id); err != nil {
		return err
	}
	return s.audits.Delete(ctx, id)
}

// SyncSections replaces the audit's link-set with the submitted set.
// Duplicates collapse; every id must reference an existing section or the
// whole call fails without writing. An empty set detaches everything.
func (s *auditService) SyncSections(ctx context.Context, auditID string, sectionIDs []string) (*auditdomain.AuditDetail, error) {
	audit, err := s.audits.FindByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	ids := auditdomain.NormalizeSectionIDs(sectionIDs)
	if len(ids) > 0 {
		found, err := s.sections.ExistingIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(found) != len(ids) {
			verr := &auditdomain.ValidationError{}
			exists := make(map[string]bool, len(found))
			for _, id := range found {
				exists[id] = true
			}
			for i, id := range ids {
				if !exists[id] {
					verr.Add("sectionIds["+strconv.Itoa(i)+"]", "section does not exist")
				}
			}
			return nil, verr
		}
	}
	if err := s.audits.ReplaceSections(ctx, audit.ID, ids); err != nil {
		return nil, err
	}
	audit.SectionIDs = ids
	return s.assemble(ctx, audit)
}

// DetachSection removes one link. A link that is not present is a no-op.
func (s *auditService) DetachSection(ctx context.Context, auditID, sectionID string) error {
	if _, err := s.audits.FindByID(ctx, auditID); err != nil {
		return err
	}
	return s.audits.DetachSection(ctx, auditID, sectionID)
}

func (s *auditService) assemble(ctx context.Context, audit *auditdomain.Audit) (*auditdomain.AuditDetail, error) {
	detail := &auditdomain.AuditDetail{Audit: *audit}
	for _, sectionID := range audit.SectionIDs {
		section, err := s.sections.FindByID(ctx, sectionID)
		if err != nil {
			if errors.Is(err, auditdomain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		detail.Sections = append(detail.Sections, auditdomain.SectionSummary{
			Section:       section.Section,
			QuestionCount: int64(len(section.Questions)),
		})
	}
	if audit.AssignedTo != "" {
		user, err := s.users.FindByID(ctx, audit.AssignedTo)
		if err != nil && !errors.Is(err, auditdomain.ErrNotFound) {
			return nil, err
		}
		detail.Assignee = user
	}
	return detail, nil
}

func (s *auditService) buildAudit(ctx context.Context, cmd UpsertAuditCommand) (*auditdomain.Audit, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, auditdomain.NewValidationError("title", "title is required")
	}
	if cmd.ScheduledAt.IsZero() {
		return nil, auditdomain.NewValidationError("scheduledAt", "scheduledAt is required")
	}
	assignedTo := strings.TrimSpace(cmd.AssignedTo)
	if assignedTo == "" {
		return nil, auditdomain.NewValidationError("assignedTo", "assignedTo is required")
	}
	if _, err := s.users.FindByID(ctx, assignedTo); err != nil {
		if errors.Is(err, auditdomain.ErrNotFound) {
			return nil, auditdomain.NewValidationError("assignedTo", "user does not exist")
		}
		return nil, err
	}
	return &auditdomain.Audit{
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		AssignedTo:  assignedTo,
		ScheduledAt: cmd.ScheduledAt.UTC(),
	}, nil
}

// scheduleReminder is best-effort; a broken queue never fails the command.
func (s *auditService) scheduleReminder(ctx context.Context, audit *auditdomain.Audit) {
	if s.reminders == nil {
		return
	}
	_ = s.reminders.ScheduleReminder(ctx, audit.ID, audit.ScheduledAt)
}
