package admin

import (
	"time"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

type sectionRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type optionRequest struct {
	ID    *string `json:"id"`
	Label string  `json:"label" validate:"required"`
	Value string  `json:"value" validate:"required"`
	Order *int    `json:"order"`
}

type questionRequest struct {
	SectionID      string          `json:"sectionId" validate:"required"`
	Question       string          `json:"question" validate:"required"`
	Type           string          `json:"type" validate:"required,oneof=text boolean select"`
	Required       bool            `json:"required"`
	HasDescription bool            `json:"hasDescription"`
	Order          int             `json:"order" validate:"min=0"`
	Options        []optionRequest `json:"options" validate:"dive"`
}

type auditRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assignedTo" validate:"required"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=scheduled downloaded in_progress completed cancelled"`
}

type syncSectionsRequest struct {
	SectionIDs []string `json:"sectionIds"`
}

type answerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
	Comments   string `json:"comments"`
}

type optionResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Order int    `json:"order"`
}

type questionResponse struct {
	ID             string           `json:"id"`
	SectionID      string           `json:"sectionId"`
	Question       string           `json:"question"`
	Type           string           `json:"type"`
	Required       bool             `json:"required"`
	HasDescription bool             `json:"hasDescription"`
	Order          int              `json:"order"`
	Options        []optionResponse `json:"options"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type sectionResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	QuestionCount int64     `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type sectionDetailResponse struct {
	sectionResponse
	Questions []questionResponse `json:"questions"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type auditResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	AssignedTo     string            `json:"assignedTo"`
	Assignee       *userResponse     `json:"assignee,omitempty"`
	ScheduledAt    time.Time         `json:"scheduledAt"`
	DownloadedAt   *time.Time        `json:"downloadedAt,omitempty"`
	StartedAt      *time.Time        `json:"startedAt,omitempty"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	ReminderSentAt *time.Time        `json:"reminderSentAt,omitempty"`
	Status         string            `json:"status"`
	Sections       []sectionResponse `json:"sections"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type answerResponse struct {
	ID         string    `json:"id"`
	AuditID    string    `json:"auditId"`
	QuestionID string    `json:"questionId"`
	Answer     string    `json:"answer,omitempty"`
	Comments   string    `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type pageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func questionDomainToResponse(question auditdomain.Question) questionResponse {
	options := make([]optionResponse, 0, len(question.Options))
	for _, opt := range question.Options {
		options = append(options, optionResponse(opt))
	}
	return questionResponse{
		ID:             question.ID,
		SectionID:      question.SectionID,
		Question:       question.Text,
		Type:           string(question.Type),
		Required:       question.Required,
		HasDescription: question.HasDescription,
		Order:          question.Order,
		Options:        options,
		CreatedAt:      question.CreatedAt,
		UpdatedAt:      question.UpdatedAt,
	}
}

func sectionDomainToResponse(section auditdomain.Section, questionCount int64) sectionResponse {
	return sectionResponse{
		ID:            section.ID,
		Title:         section.Title,
		Description:   section.Description,
		QuestionCount: questionCount,
		CreatedAt:     section.CreatedAt,
		UpdatedAt:     section.UpdatedAt,
	}
}

func sectionDetailDomainToResponse(detail auditdomain.SectionDetail) sectionDetailResponse {
	questions := make([]questionResponse, 0, len(detail.Questions))
	for _, question := range detail.Questions {
		questions = append(questions, questionDomainToResponse(question))
	}
	return sectionDetailResponse{
		sectionResponse: sectionDomainToResponse(detail.Section, int64(len(detail.Questions))),
		Questions:       questions,
	}
}

func userDomainToResponse(user auditdomain.User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

func auditDomainToResponse(audit auditdomain.Audit) auditResponse {
	return auditResponse{
		ID:             audit.ID,
		Title:          audit.Title,
		Description:    audit.Description,
		AssignedTo:     audit.AssignedTo,
		ScheduledAt:    audit.ScheduledAt,
		DownloadedAt:   audit.DownloadedAt,
		StartedAt:      audit.StartedAt,
		CompletedAt:    audit.CompletedAt,
		ReminderSentAt: audit.ReminderSentAt,
		Status:         string(audit.Status),
		Sections:       []sectionResponse{},
		CreatedAt:      audit.CreatedAt,
		UpdatedAt:      audit.UpdatedAt,
	}
}

func auditDetailDomainToResponse(detail auditdomain.AuditDetail) auditResponse {
	resp := auditDomainToResponse(detail.Audit)
	for _, summary := range detail.Sections {
		resp.Sections = append(resp.Sections, sectionDomainToResponse(summary.Section, summary.QuestionCount))
	}
	if detail.Assignee != nil {
		assignee := userDomainToResponse(*detail.Assignee)
		resp.Assignee = &assignee
	}
	return resp
}

func answerDomainToResponse(answer auditdomain.Answer) answerResponse {
	return answerResponse{
		ID:         answer.ID,
		AuditID:    answer.AuditID,
		QuestionID: answer.QuestionID,
		Answer:     answer.Answer,
		Comments:   answer.Comments,
		CreatedAt:  answer.CreatedAt,
	}
}
