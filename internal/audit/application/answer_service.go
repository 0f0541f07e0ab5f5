package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

type answerService struct {
	answers   AnswerRepository
	audits    AuditRepository
	questions QuestionRepository
}

func NewAnswerService(answers AnswerRepository, audits AuditRepository, questions QuestionRepository) AnswerService {
	return &answerService{answers: answers, audits: audits, questions: questions}
}

// Record appends one entry to the audit's answer journal. Earlier answers
// to the same question are kept.
func (s *answerService) Record(ctx context.Context, cmd RecordAnswerCommand) (*auditdomain.Answer, error) {
	audit, err := s.audits.FindByID(ctx, cmd.AuditID)
	if err != nil {
		return nil, err
	}
	questionID := strings.TrimSpace(cmd.QuestionID)
	if questionID == "" {
		return nil, auditdomain.NewValidationError("questionId", "questionId is required")
	}
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		if errors.Is(err, auditdomain.ErrNotFound) {
			return nil, auditdomain.NewValidationError("questionId", "question does not exist")
		}
		return nil, err
	}
	answer := &auditdomain.Answer{
		ID:         uuid.NewString(),
		AuditID:    audit.ID,
		QuestionID: questionID,
		Answer:     cmd.Answer,
		Comments:   strings.TrimSpace(cmd.Comments),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *answerService) ListByAudit(ctx context.Context, auditID string) ([]auditdomain.Answer, error) {
	if _, err := s.audits.FindByID(ctx, auditID); err != nil {
		return nil, err
	}
	return s.answers.ListByAudit(ctx, auditID)
}
