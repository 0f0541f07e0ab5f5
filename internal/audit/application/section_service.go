package application

import (
	"context"
	"strings"
	"time"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

type sectionService struct {
	sections  SectionRepository
	questions QuestionRepository
	answers   AnswerRepository
	audits    AuditRepository
}

func NewSectionService(sections SectionRepository, questions QuestionRepository, answers AnswerRepository, audits AuditRepository) SectionService {
	return &sectionService{sections: sections, questions: questions, answers: answers, audits: audits}
}

func (s *sectionService) List(ctx context.Context, paging Paging) (*SectionPage, error) {
	paging = paging.Normalize()
	items, total, err := s.sections.Find(ctx, paging)
	if err != nil {
		return nil, err
	}
	return &SectionPage{Items: items, PageInfo: NewPageInfo(paging, total)}, nil
}

func (s *sectionService) Detail(ctx context.Context, id string) (*auditdomain.SectionDetail, error) {
	return s.sections.FindByID(ctx, id)
}

func (s *sectionService) Create(ctx context.Context, cmd UpsertSectionCommand) (*auditdomain.Section, error) {
	section, err := buildSectionFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *sectionService) Update(ctx context.Context, id string, cmd UpsertSectionCommand) (*auditdomain.Section, error) {
	existing, err := s.sections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	section, err := buildSectionFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	section.ID = existing.ID
	section.CreatedAt = existing.CreatedAt
	section.UpdatedAt = time.Now().UTC()
	if err := s.sections.Update(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// Delete removes the section with its dependents: answers to its questions,
// the questions themselves, and the section's id in every audit's link-set.
// Audits referencing the section survive with the link removed.
func (s *sectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.sections.FindByID(ctx, id); err != nil {
		return err
	}
	questionIDs, err := s.questions.ListIDsBySection(ctx, id)
	if err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := s.answers.DeleteByQuestions(ctx, questionIDs); err != nil {
			return err
		}
	}
	if err := s.questions.DeleteBySection(ctx, id); err != nil {
		return err
	}
	if err := s.audits.PullSectionFromAll(ctx, id); err != nil {
		return err
	}
	return s.sections.Delete(ctx, id)
}

func buildSectionFromCommand(cmd UpsertSectionCommand) (*auditdomain.Section, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, auditdomain.NewValidationError("title", "title is required")
	}
	return &auditdomain.Section{
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
	}, nil
}
