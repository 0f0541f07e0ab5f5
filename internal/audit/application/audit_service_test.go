package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

var testUser = auditdomain.User{ID: "user-1", Name: "Laura Mendoza", Email: "laura@example.com"}

func createAudit(t *testing.T, f *fixture) *auditdomain.Audit {
	t.Helper()
	audit, err := f.auditService.Create(context.Background(), UpsertAuditCommand{
		Title:       "Quarterly inspection",
		AssignedTo:  testUser.ID,
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return audit
}

func createSection(t *testing.T, f *fixture, title string) *auditdomain.Section {
	t.Helper()
	section, err := f.sectionService.Create(context.Background(), UpsertSectionCommand{Title: title})
	require.NoError(t, err)
	return section
}

func TestAuditCreateDefaultsToScheduled(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)

	assert.Equal(t, auditdomain.StatusScheduled, audit.Status)
	assert.NotEmpty(t, audit.ID)
	require.Len(t, f.reminders.calls, 1)
	assert.Equal(t, audit.ID, f.reminders.calls[0].auditID)
}

func TestAuditCreateRejectsUnknownAssignee(t *testing.T) {
	f := newFixture(testUser)

	_, err := f.auditService.Create(context.Background(), UpsertAuditCommand{
		Title:       "Inspection",
		AssignedTo:  "ghost",
		ScheduledAt: time.Now(),
	})
	require.Error(t, err)

	var verr *auditdomain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "assignedTo")
}

func TestAuditStatusAdvancesOneStepAtATime(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	ctx := context.Background()

	cmd := UpsertAuditCommand{
		Title:       audit.Title,
		AssignedTo:  audit.AssignedTo,
		ScheduledAt: audit.ScheduledAt,
	}

	cmd.Status = "downloaded"
	updated, err := f.auditService.Update(ctx, audit.ID, cmd)
	require.NoError(t, err)
	assert.Equal(t, auditdomain.StatusDownloaded, updated.Status)
	assert.NotNil(t, updated.DownloadedAt)

	cmd.Status = "completed"
	_, err = f.auditService.Update(ctx, audit.ID, cmd)
	require.Error(t, err)

	var terr *auditdomain.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, auditdomain.StatusDownloaded, terr.From)

	// The failed jump must not have been persisted.
	detail, err := f.auditService.Detail(ctx, audit.ID)
	require.NoError(t, err)
	assert.Equal(t, auditdomain.StatusDownloaded, detail.Status)
}

func TestAuditSyncSectionsReplacesWholeSet(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	s1 := createSection(t, f, "General")
	s2 := createSection(t, f, "Safety")
	s3 := createSection(t, f, "Compliance")
	ctx := context.Background()

	detail, err := f.auditService.SyncSections(ctx, audit.ID, []string{s1.ID, s2.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{s1.ID, s2.ID}, detail.SectionIDs)

	// Full replacement: a later sync with a different set wins outright.
	detail, err = f.auditService.SyncSections(ctx, audit.ID, []string{s3.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{s3.ID}, detail.SectionIDs)
}

func TestAuditSyncSectionsIsIdempotent(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	s1 := createSection(t, f, "General")
	s2 := createSection(t, f, "Safety")
	ctx := context.Background()

	first, err := f.auditService.SyncSections(ctx, audit.ID, []string{s1.ID, s2.ID})
	require.NoError(t, err)
	second, err := f.auditService.SyncSections(ctx, audit.ID, []string{s2.ID, s1.ID, s2.ID})
	require.NoError(t, err)

	assert.Equal(t, first.SectionIDs, second.SectionIDs)
}

func TestAuditSyncSectionsCollapsesDuplicates(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	s1 := createSection(t, f, "General")

	detail, err := f.auditService.SyncSections(context.Background(), audit.ID, []string{s1.ID, s1.ID, s1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{s1.ID}, detail.SectionIDs)
}

func TestAuditSyncSectionsEmptySetDetachesAll(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	s1 := createSection(t, f, "General")
	ctx := context.Background()

	_, err := f.auditService.SyncSections(ctx, audit.ID, []string{s1.ID})
	require.NoError(t, err)

	detail, err := f.auditService.SyncSections(ctx, audit.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, detail.SectionIDs)
}

func TestAuditSyncSectionsRejectsUnknownIDAtomically(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	s1 := createSection(t, f, "General")
	ctx := context.Background()

	_, err := f.auditService.SyncSections(ctx, audit.ID, []string{s1.ID})
	require.NoError(t, err)

	_, err = f.auditService.SyncSections(ctx, audit.ID, []string{s1.ID, "missing"})
	require.Error(t, err)

	var verr *auditdomain.ValidationError
	require.ErrorAs(t, err, &verr)

	// The previous link-set survives untouched.
	detail, err := f.auditService.Detail(ctx, audit.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{s1.ID}, detail.SectionIDs)
}

func TestAuditDetachSection(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	s1 := createSection(t, f, "General")
	s2 := createSection(t, f, "Safety")
	ctx := context.Background()

	_, err := f.auditService.SyncSections(ctx, audit.ID, []string{s1.ID, s2.ID})
	require.NoError(t, err)

	require.NoError(t, f.auditService.DetachSection(ctx, audit.ID, s1.ID))
	detail, err := f.auditService.Detail(ctx, audit.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{s2.ID}, detail.SectionIDs)

	// Detaching an absent link is a no-op, not an error.
	require.NoError(t, f.auditService.DetachSection(ctx, audit.ID, s1.ID))
	detail, err = f.auditService.Detail(ctx, audit.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{s2.ID}, detail.SectionIDs)
}

func TestAuditDeleteCascadesAnswers(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	section := createSection(t, f, "General")
	ctx := context.Background()

	question, err := f.questionService.Create(ctx, UpsertQuestionCommand{
		SectionID: section.ID,
		Text:      "Any observations?",
		Type:      "text",
	})
	require.NoError(t, err)

	_, err = f.answerService.Record(ctx, RecordAnswerCommand{
		AuditID:    audit.ID,
		QuestionID: question.ID,
		Answer:     "All good",
	})
	require.NoError(t, err)

	require.NoError(t, f.auditService.Delete(ctx, audit.ID))

	_, err = f.auditService.Detail(ctx, audit.ID)
	assert.ErrorIs(t, err, auditdomain.ErrNotFound)
	assert.Empty(t, f.answers.answers)
}

func TestAuditDetailJoinsSectionsAndAssignee(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	section := createSection(t, f, "General")
	ctx := context.Background()

	_, err := f.questionService.Create(ctx, UpsertQuestionCommand{
		SectionID: section.ID,
		Text:      "Any observations?",
		Type:      "text",
	})
	require.NoError(t, err)

	_, err = f.auditService.SyncSections(ctx, audit.ID, []string{section.ID})
	require.NoError(t, err)

	detail, err := f.auditService.Detail(ctx, audit.ID)
	require.NoError(t, err)
	require.Len(t, detail.Sections, 1)
	assert.Equal(t, section.ID, detail.Sections[0].ID)
	assert.Equal(t, int64(1), detail.Sections[0].QuestionCount)
	require.NotNil(t, detail.Assignee)
	assert.Equal(t, testUser.Name, detail.Assignee.Name)
}

func TestAuditRescheduleQueuesNewReminder(t *testing.T) {
	f := newFixture(testUser)
	audit := createAudit(t, f)
	ctx := context.Background()

	newTime := audit.ScheduledAt.Add(72 * time.Hour)
	_, err := f.auditService.Update(ctx, audit.ID, UpsertAuditCommand{
		Title:       audit.Title,
		AssignedTo:  audit.AssignedTo,
		ScheduledAt: newTime,
	})
	require.NoError(t, err)

	require.Len(t, f.reminders.calls, 2)
	assert.True(t, f.reminders.calls[1].at.Equal(newTime.UTC()))
}
