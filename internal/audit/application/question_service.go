package application

import (
	"context"
	"strings"
	"time"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

type questionService struct {
	questions QuestionRepository
	sections  SectionRepository
	answers   AnswerRepository
}

func NewQuestionService(questions QuestionRepository, sections SectionRepository, answers AnswerRepository) QuestionService {
	return &questionService{questions: questions, sections: sections, answers: answers}
}

func (s *questionService) List(ctx context.Context, filter QuestionFilter, paging Paging) (*QuestionPage, error) {
	paging = paging.Normalize()
	items, total, err := s.questions.Find(ctx, filter, paging)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Items: items, PageInfo: NewPageInfo(paging, total)}, nil
}

func (s *questionService) Detail(ctx context.Context, id string) (*auditdomain.Question, error) {
	return s.questions.FindByID(ctx, id)
}

func (s *questionService) Create(ctx context.Context, cmd UpsertQuestionCommand) (*auditdomain.Question, error) {
	question, err := s.buildQuestion(ctx, nil, cmd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	question.CreatedAt = now
	question.UpdatedAt = now
	question.Version = 1
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id string, cmd UpsertQuestionCommand) (*auditdomain.Question, error) {
	existing, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	question, err := s.buildQuestion(ctx, existing, cmd)
	if err != nil {
		return nil, err
	}
	question.ID = existing.ID
	question.CreatedAt = existing.CreatedAt
	question.UpdatedAt = time.Now().UTC()
	question.Version = existing.Version
	if err := s.questions.Update(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// Delete soft-deletes the question and drops its answer journal entries.
func (s *questionService) Delete(ctx context.Context, id string) error {
	if _, err := s.questions.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.answers.DeleteByQuestions(ctx, []string{id}); err != nil {
		return err
	}
	return s.questions.SoftDelete(ctx, id)
}

// buildQuestion validates the command and reconciles the option set against
// the existing question's options (nil existing means the create path: every
// submitted id fails ownership, so only creations happen).
func (s *questionService) buildQuestion(ctx context.Context, existing *auditdomain.Question, cmd UpsertQuestionCommand) (*auditdomain.Question, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return nil, auditdomain.NewValidationError("question", "question text is required")
	}
	qType, err := auditdomain.ParseQuestionType(cmd.Type)
	if err != nil {
		return nil, err
	}

	sectionID := strings.TrimSpace(cmd.SectionID)
	if sectionID == "" {
		return nil, auditdomain.NewValidationError("sectionId", "sectionId is required")
	}
	found, err := s.sections.ExistingIDs(ctx, []string{sectionID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, auditdomain.NewValidationError("sectionId", "section does not exist")
	}

	var owned []auditdomain.Option
	if existing != nil {
		owned = existing.Options
	}
	options, err := auditdomain.ReconcileOptions(qType, owned, optionInputs(cmd.Options))
	if err != nil {
		return nil, err
	}
	if qType == auditdomain.QuestionTypeSelect && len(options) == 0 {
		return nil, auditdomain.NewValidationError("options", "select questions need at least one option")
	}

	return &auditdomain.Question{
		SectionID:      sectionID,
		Text:           text,
		Type:           qType,
		Required:       cmd.Required,
		HasDescription: cmd.HasDescription,
		Order:          cmd.Order,
		Options:        options,
	}, nil
}

func optionInputs(cmds []OptionCommand) []auditdomain.OptionInput {
	if len(cmds) == 0 {
		return nil
	}
	inputs := make([]auditdomain.OptionInput, 0, len(cmds))
	for _, c := range cmds {
		inputs = append(inputs, auditdomain.OptionInput{
			ID:    c.ID,
			Label: c.Label,
			Value: c.Value,
			Order: c.Order,
		})
	}
	return inputs
}
