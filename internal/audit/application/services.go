package application

import (
	"context"
	"time"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

// SectionRepository exposes CRUD for audit sections.
type SectionRepository interface {
	Find(ctx context.Context, paging Paging) ([]auditdomain.SectionSummary, int64, error)
	FindByID(ctx context.Context, id string) (*auditdomain.SectionDetail, error)
	Create(ctx context.Context, section *auditdomain.Section) error
	Update(ctx context.Context, section *auditdomain.Section) error
	Delete(ctx context.Context, id string) error
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

// QuestionRepository exposes CRUD for questions and their embedded options.
type QuestionRepository interface {
	Find(ctx context.Context, filter QuestionFilter, paging Paging) ([]auditdomain.Question, int64, error)
	FindByID(ctx context.Context, id string) (*auditdomain.Question, error)
	Create(ctx context.Context, question *auditdomain.Question) error
	// Update persists the question guarded by its version; a stale version
	// yields auditdomain.ErrConflict.
	Update(ctx context.Context, question *auditdomain.Question) error
	SoftDelete(ctx context.Context, id string) error
	DeleteBySection(ctx context.Context, sectionID string) error
	ListIDsBySection(ctx context.Context, sectionID string) ([]string, error)
}

// AuditRepository exposes CRUD for audits and their section link-set.
type AuditRepository interface {
	Find(ctx context.Context, filter AuditFilter, paging Paging) ([]auditdomain.Audit, int64, error)
	FindByID(ctx context.Context, id string) (*auditdomain.Audit, error)
	Create(ctx context.Context, audit *auditdomain.Audit) error
	Update(ctx context.Context, audit *auditdomain.Audit) error
	Delete(ctx context.Context, id string) error
	ReplaceSections(ctx context.Context, auditID string, sectionIDs []string) error
	DetachSection(ctx context.Context, auditID, sectionID string) error
	PullSectionFromAll(ctx context.Context, sectionID string) error
}

// AnswerRepository exposes the append-only answer journal.
type AnswerRepository interface {
	Create(ctx context.Context, answer *auditdomain.Answer) error
	ListByAudit(ctx context.Context, auditID string) ([]auditdomain.Answer, error)
	DeleteByAudit(ctx context.Context, auditID string) error
	DeleteByQuestions(ctx context.Context, questionIDs []string) error
}

// UserRepository reads assignee reference data.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*auditdomain.User, error)
	List(ctx context.Context) ([]auditdomain.User, error)
}

// ReminderScheduler enqueues a reminder to fire at the audit's scheduled
// time. Implementations must tolerate being disabled at runtime.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, auditID string, at time.Time) error
}

// QuestionFilter narrows question searches.
type QuestionFilter struct {
	SectionID string
}

// AuditFilter narrows audit searches.
type AuditFilter struct {
	Status     string
	AssignedTo string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Normalize clamps paging to sane defaults.
func (p Paging) Normalize() Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// Skip returns the number of records to skip for the page.
func (p Paging) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// PageInfo describes one page of a result set.
type PageInfo struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPageInfo derives page metadata from a total count.
func NewPageInfo(paging Paging, total int64) PageInfo {
	pages := int(total) / paging.Limit
	if int(total)%paging.Limit != 0 {
		pages++
	}
	return PageInfo{Total: total, Page: paging.Page, Limit: paging.Limit, TotalPages: pages}
}

// AuditPage is one page of audits with their detail joins.
type AuditPage struct {
	Items []auditdomain.AuditDetail
	PageInfo
}

// SectionPage is one page of section summaries.
type SectionPage struct {
	Items []auditdomain.SectionSummary
	PageInfo
}

// QuestionPage is one page of questions.
type QuestionPage struct {
	Items []auditdomain.Question
	PageInfo
}

// SectionService describes section use-cases, including the delete cascade.
type SectionService interface {
	List(ctx context.Context, paging Paging) (*SectionPage, error)
	Detail(ctx context.Context, id string) (*auditdomain.SectionDetail, error)
	Create(ctx context.Context, cmd UpsertSectionCommand) (*auditdomain.Section, error)
	Update(ctx context.Context, id string, cmd UpsertSectionCommand) (*auditdomain.Section, error)
	Delete(ctx context.Context, id string) error
}

// QuestionService describes question use-cases, including option
// reconciliation on create and update.
type QuestionService interface {
	List(ctx context.Context, filter QuestionFilter, paging Paging) (*QuestionPage, error)
	Detail(ctx context.Context, id string) (*auditdomain.Question, error)
	Create(ctx context.Context, cmd UpsertQuestionCommand) (*auditdomain.Question, error)
	Update(ctx context.Context, id string, cmd UpsertQuestionCommand) (*auditdomain.Question, error)
	Delete(ctx context.Context, id string) error
}

// AuditService describes audit use-cases, including link-set sync.
type AuditService interface {
	List(ctx context.Context, filter AuditFilter, paging Paging) (*AuditPage, error)
	Detail(ctx context.Context, id string) (*auditdomain.AuditDetail, error)
	Create(ctx context.Context, cmd UpsertAuditCommand) (*auditdomain.Audit, error)
	Update(ctx context.Context, id string, cmd UpsertAuditCommand) (*auditdomain.Audit, error)
	Delete(ctx context.Context, id string) error
	SyncSections(ctx context.Context, auditID string, sectionIDs []string) (*auditdomain.AuditDetail, error)
	DetachSection(ctx context.Context, auditID, sectionID string) error
}

// AnswerService describes the answer journal use-cases.
type AnswerService interface {
	Record(ctx context.Context, cmd RecordAnswerCommand) (*auditdomain.Answer, error)
	ListByAudit(ctx context.Context, auditID string) ([]auditdomain.Answer, error)
}

// UserService lists assignable users.
type UserService interface {
	List(ctx context.Context) ([]auditdomain.User, error)
}

// UpsertSectionCommand contains inputs for section CRUD.
type UpsertSectionCommand struct {
	Title       string
	Description string
}

// OptionCommand is one submitted option row. Nil ID means create.
type OptionCommand struct {
	ID    *string
	Label string
	Value string
	Order *int
}

// UpsertQuestionCommand contains inputs for question CRUD.
type UpsertQuestionCommand struct {
	SectionID      string
	Text           string
	Type           string
	Required       bool
	HasDescription bool
	Order          int
	Options        []OptionCommand
}

// UpsertAuditCommand contains inputs for audit CRUD.
type UpsertAuditCommand struct {
	Title       string
	Description string
	AssignedTo  string
	ScheduledAt time.Time
	Status      string
}

// RecordAnswerCommand appends one answer to an audit's journal.
type RecordAnswerCommand struct {
	AuditID    string
	QuestionID string
	Answer     string
	Comments   string
}
