package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

// In-memory repositories backing the service tests.

type fakeSectionRepo struct {
	seq      int
	sections map[string]auditdomain.Section
	// questions lets FindByID join the section's questions.
	questions *fakeQuestionRepo
}

func newFakeSectionRepo(questions *fakeQuestionRepo) *fakeSectionRepo {
	return &fakeSectionRepo{sections: map[string]auditdomain.Section{}, questions: questions}
}

func (r *fakeSectionRepo) Find(_ context.Context, paging Paging) ([]auditdomain.SectionSummary, int64, error) {
	ids := make([]string, 0, len(r.sections))
	for id := range r.sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	summaries := make([]auditdomain.SectionSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, auditdomain.SectionSummary{
			Section:       r.sections[id],
			QuestionCount: int64(len(r.questions.liveBySection(id))),
		})
	}
	return summaries, int64(len(ids)), nil
}

func (r *fakeSectionRepo) FindByID(_ context.Context, id string) (*auditdomain.SectionDetail, error) {
	section, ok := r.sections[id]
	if !ok {
		return nil, auditdomain.ErrNotFound
	}
	return &auditdomain.SectionDetail{
		Section:   section,
		Questions: r.questions.liveBySection(id),
	}, nil
}

func (r *fakeSectionRepo) Create(_ context.Context, section *auditdomain.Section) error {
	r.seq++
	section.ID = fmt.Sprintf("sec-%d", r.seq)
	r.sections[section.ID] = *section
	return nil
}

func (r *fakeSectionRepo) Update(_ context.Context, section *auditdomain.Section) error {
	if _, ok := r.sections[section.ID]; !ok {
		return auditdomain.ErrNotFound
	}
	r.sections[section.ID] = *section
	return nil
}

func (r *fakeSectionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sections[id]; !ok {
		return auditdomain.ErrNotFound
	}
	delete(r.sections, id)
	return nil
}

func (r *fakeSectionRepo) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	found := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.sections[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

type fakeQuestionRepo struct {
	seq       int
	questions map[string]auditdomain.Question
	deleted   map[string]bool
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: map[string]auditdomain.Question{}, deleted: map[string]bool{}}
}

func (r *fakeQuestionRepo) liveBySection(sectionID string) []auditdomain.Question {
	out := make([]auditdomain.Question, 0)
	ids := make([]string, 0, len(r.questions))
	for id := range r.questions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		q := r.questions[id]
		if q.SectionID == sectionID && !r.deleted[id] {
			out = append(out, q)
		}
	}
	return out
}

func (r *fakeQuestionRepo) Find(_ context.Context, filter QuestionFilter, _ Paging) ([]auditdomain.Question, int64, error) {
	out := make([]auditdomain.Question, 0)
	ids := make([]string, 0, len(r.questions))
	for id := range r.questions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		q := r.questions[id]
		if r.deleted[id] {
			continue
		}
		if filter.SectionID != "" && q.SectionID != filter.SectionID {
			continue
		}
		out = append(out, q)
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuestionRepo) FindByID(_ context.Context, id string) (*auditdomain.Question, error) {
	q, ok := r.questions[id]
	if !ok || r.deleted[id] {
		return nil, auditdomain.ErrNotFound
	}
	return &q, nil
}

func (r *fakeQuestionRepo) Create(_ context.Context, question *auditdomain.Question) error {
	r.seq++
	question.ID = fmt.Sprintf("q-%d", r.seq)
	r.questions[question.ID] = *question
	return nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, question *auditdomain.Question) error {
	existing, ok := r.questions[question.ID]
	if !ok || r.deleted[question.ID] {
		return auditdomain.ErrNotFound
	}
	if existing.Version != question.Version {
		return auditdomain.ErrConflict
	}
	question.Version++
	r.questions[question.ID] = *question
	return nil
}

func (r *fakeQuestionRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.questions[id]; !ok || r.deleted[id] {
		return auditdomain.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *fakeQuestionRepo) DeleteBySection(_ context.Context, sectionID string) error {
	for id, q := range r.questions {
		if q.SectionID == sectionID {
			r.deleted[id] = true
		}
	}
	return nil
}

func (r *fakeQuestionRepo) ListIDsBySection(_ context.Context, sectionID string) ([]string, error) {
	out := make([]string, 0)
	for _, q := range r.liveBySection(sectionID) {
		out = append(out, q.ID)
	}
	return out, nil
}

type fakeAuditRepo struct {
	seq     int
	audits  map[string]auditdomain.Audit
	deleted map[string]bool
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{audits: map[string]auditdomain.Audit{}, deleted: map[string]bool{}}
}

func (r *fakeAuditRepo) Find(_ context.Context, filter AuditFilter, _ Paging) ([]auditdomain.Audit, int64, error) {
	out := make([]auditdomain.Audit, 0)
	ids := make([]string, 0, len(r.audits))
	for id := range r.audits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := r.audits[id]
		if r.deleted[id] {
			continue
		}
		if filter.Status != "" && string(a.Status) != filter.Status {
			continue
		}
		if filter.AssignedTo != "" && a.AssignedTo != filter.AssignedTo {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) FindByID(_ context.Context, id string) (*auditdomain.Audit, error) {
	a, ok := r.audits[id]
	if !ok || r.deleted[id] {
		return nil, auditdomain.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAuditRepo) Create(_ context.Context, audit *auditdomain.Audit) error {
	r.seq++
	audit.ID = fmt.Sprintf("aud-%d", r.seq)
	r.audits[audit.ID] = *audit
	return nil
}

func (r *fakeAuditRepo) Update(_ context.Context, audit *auditdomain.Audit) error {
	if _, ok := r.audits[audit.ID]; !ok || r.deleted[audit.ID] {
		return auditdomain.ErrNotFound
	}
	r.audits[audit.ID] = *audit
	return nil
}

func (r *fakeAuditRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.audits[id]; !ok || r.deleted[id] {
		return auditdomain.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *fakeAuditRepo) ReplaceSections(_ context.Context, auditID string, sectionIDs []string) error {
	a, ok := r.audits[auditID]
	if !ok || r.deleted[auditID] {
		return auditdomain.ErrNotFound
	}
	a.SectionIDs = append([]string(nil), sectionIDs...)
	r.audits[auditID] = a
	return nil
}

func (r *fakeAuditRepo) DetachSection(_ context.Context, auditID, sectionID string) error {
	a, ok := r.audits[auditID]
	if !ok || r.deleted[auditID] {
		return auditdomain.ErrNotFound
	}
	kept := make([]string, 0, len(a.SectionIDs))
	for _, id := range a.SectionIDs {
		if id != sectionID {
			kept = append(kept, id)
		}
	}
	a.SectionIDs = kept
	r.audits[auditID] = a
	return nil
}

func (r *fakeAuditRepo) PullSectionFromAll(_ context.Context, sectionID string) error {
	for id, a := range r.audits {
		kept := make([]string, 0, len(a.SectionIDs))
		for _, sid := range a.SectionIDs {
			if sid != sectionID {
				kept = append(kept, sid)
			}
		}
		a.SectionIDs = kept
		r.audits[id] = a
	}
	return nil
}

type fakeAnswerRepo struct {
	seq     int
	answers []auditdomain.Answer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{}
}

func (r *fakeAnswerRepo) Create(_ context.Context, answer *auditdomain.Answer) error {
	r.seq++
	if answer.ID == "" {
		answer.ID = fmt.Sprintf("ans-%d", r.seq)
	}
	r.answers = append(r.answers, *answer)
	return nil
}

func (r *fakeAnswerRepo) ListByAudit(_ context.Context, auditID string) ([]auditdomain.Answer, error) {
	out := make([]auditdomain.Answer, 0)
	for _, a := range r.answers {
		if a.AuditID == auditID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) DeleteByAudit(_ context.Context, auditID string) error {
	kept := r.answers[:0]
	for _, a := range r.answers {
		if a.AuditID != auditID {
			kept = append(kept, a)
		}
	}
	r.answers = kept
	return nil
}

func (r *fakeAnswerRepo) DeleteByQuestions(_ context.Context, questionIDs []string) error {
	drop := make(map[string]bool, len(questionIDs))
	for _, id := range questionIDs {
		drop[id] = true
	}
	kept := r.answers[:0]
	for _, a := range r.answers {
		if !drop[a.QuestionID] {
			kept = append(kept, a)
		}
	}
	r.answers = kept
	return nil
}

type fakeUserRepo struct {
	users map[string]auditdomain.User
}

func newFakeUserRepo(users ...auditdomain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]auditdomain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auditdomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, auditdomain.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]auditdomain.User, error) {
	out := make([]auditdomain.User, 0, len(r.users))
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, r.users[id])
	}
	return out, nil
}

type reminderCall struct {
	auditID string
	at      time.Time
}

type fakeReminderScheduler struct {
	calls []reminderCall
}

func (s *fakeReminderScheduler) ScheduleReminder(_ context.Context, auditID string, at time.Time) error {
	s.calls = append(s.calls, reminderCall{auditID: auditID, at: at})
	return nil
}

// fixture wires the full service graph over the in-memory repositories.
type fixture struct {
	sections  *fakeSectionRepo
	questions *fakeQuestionRepo
	audits    *fakeAuditRepo
	answers   *fakeAnswerRepo
	users     *fakeUserRepo
	reminders *fakeReminderScheduler

	sectionService  SectionService
	questionService QuestionService
	auditService    AuditService
	answerService   AnswerService
}

func newFixture(users ...auditdomain.User) *fixture {
	questions := newFakeQuestionRepo()
	f := &fixture{
		sections:  newFakeSectionRepo(questions),
		questions: questions,
		audits:    newFakeAuditRepo(),
		answers:   newFakeAnswerRepo(),
		users:     newFakeUserRepo(users...),
		reminders: &fakeReminderScheduler{},
	}
	f.sectionService = NewSectionService(f.sections, f.questions, f.answers, f.audits)
	f.questionService = NewQuestionService(f.questions, f.sections, f.answers)
	f.auditService = NewAuditService(f.audits, f.sections, f.answers, f.users, f.reminders)
	f.answerService = NewAnswerService(f.answers, f.audits, f.questions)
	return f
}
