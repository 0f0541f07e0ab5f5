package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

func TestSectionCreateRejectsBlankTitle(t *testing.T) {
	f := newFixture()

	_, err := f.sectionService.Create(context.Background(), UpsertSectionCommand{Title: "   "})
	require.Error(t, err)

	var verr *auditdomain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
}

func TestSectionUpdate(t *testing.T) {
	f := newFixture()
	section := createSection(t, f, "General")
	ctx := context.Background()

	updated, err := f.sectionService.Update(ctx, section.ID, UpsertSectionCommand{
		Title:       "General information",
		Description: "Opening questions",
	})
	require.NoError(t, err)
	assert.Equal(t, section.ID, updated.ID)
	assert.Equal(t, "General information", updated.Title)
	assert.Equal(t, "Opening questions", updated.Description)
}

func TestSectionUpdateMissingReturnsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.sectionService.Update(context.Background(), "missing", UpsertSectionCommand{Title: "Anything"})
	assert.ErrorIs(t, err, auditdomain.ErrNotFound)
}

func TestSectionDeleteCascades(t *testing.T) {
	f := newFixture(testUser)
	section := createSection(t, f, "Safety")
	keep := createSection(t, f, "Compliance")
	audit := createAudit(t, f)
	ctx := context.Background()

	question, err := f.questionService.Create(ctx, UpsertQuestionCommand{
		SectionID: section.ID,
		Text:      "Exits clear?",
		Type:      "boolean",
	})
	require.NoError(t, err)

	_, err = f.auditService.SyncSections(ctx, audit.ID, []string{section.ID, keep.ID})
	require.NoError(t, err)

	_, err = f.answerService.Record(ctx, RecordAnswerCommand{
		AuditID:    audit.ID,
		QuestionID: question.ID,
		Answer:     "yes",
	})
	require.NoError(t, err)

	require.NoError(t, f.sectionService.Delete(ctx, section.ID))

	// The section and its questions are gone.
	_, err = f.sectionService.Detail(ctx, section.ID)
	assert.ErrorIs(t, err, auditdomain.ErrNotFound)
	_, err = f.questionService.Detail(ctx, question.ID)
	assert.ErrorIs(t, err, auditdomain.ErrNotFound)

	// Answers against those questions went with them.
	assert.Empty(t, f.answers.answers)

	// The audit survives, minus the dangling link.
	detail, err := f.auditService.Detail(ctx, audit.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, detail.SectionIDs)
}

func TestSectionDeleteMissingReturnsNotFound(t *testing.T) {
	f := newFixture()

	err := f.sectionService.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, auditdomain.ErrNotFound)
}

func TestSectionListCountsQuestions(t *testing.T) {
	f := newFixture()
	section := createSection(t, f, "Safety")
	ctx := context.Background()

	for _, text := range []string{"Exits clear?", "Extinguishers present?"} {
		_, err := f.questionService.Create(ctx, UpsertQuestionCommand{
			SectionID: section.ID,
			Text:      text,
			Type:      "boolean",
		})
		require.NoError(t, err)
	}

	page, err := f.sectionService.List(ctx, Paging{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Items[0].QuestionCount)
	assert.Equal(t, int64(1), page.Total)
}

func TestSectionReuseAcrossAudits(t *testing.T) {
	f := newFixture(testUser)
	section := createSection(t, f, "Safety")
	first := createAudit(t, f)
	second := createAudit(t, f)
	ctx := context.Background()

	_, err := f.auditService.SyncSections(ctx, first.ID, []string{section.ID})
	require.NoError(t, err)
	_, err = f.auditService.SyncSections(ctx, second.ID, []string{section.ID})
	require.NoError(t, err)

	// Detaching from one audit leaves the other link intact.
	require.NoError(t, f.auditService.DetachSection(ctx, first.ID, section.ID))

	detail, err := f.auditService.Detail(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{section.ID}, detail.SectionIDs)
}
