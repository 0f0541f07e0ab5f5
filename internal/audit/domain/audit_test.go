package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    AuditStatus
		to      AuditStatus
		allowed bool
	}{
		{StatusScheduled, StatusDownloaded, true},
		{StatusDownloaded, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},
		{StatusDownloaded, StatusCompleted, false},
		{StatusDownloaded, StatusScheduled, false},
		{StatusInProgress, StatusDownloaded, false},
		{StatusScheduled, StatusCancelled, true},
		{StatusDownloaded, StatusCancelled, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCompleted, StatusScheduled, false},
		{StatusScheduled, StatusScheduled, true},
		{StatusCompleted, StatusCompleted, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionStampsTimestampsOnFirstEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	audit := &Audit{Status: StatusScheduled}

	require.NoError(t, audit.Transition(StatusDownloaded, now))
	require.NotNil(t, audit.DownloadedAt)
	assert.Equal(t, now, *audit.DownloadedAt)
	assert.Nil(t, audit.StartedAt)

	later := now.Add(time.Hour)
	require.NoError(t, audit.Transition(StatusInProgress, later))
	require.NotNil(t, audit.StartedAt)
	assert.Equal(t, later, *audit.StartedAt)

	end := later.Add(time.Hour)
	require.NoError(t, audit.Transition(StatusCompleted, end))
	require.NotNil(t, audit.CompletedAt)
	assert.Equal(t, end, *audit.CompletedAt)
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	now := time.Now().UTC()
	audit := &Audit{Status: StatusDownloaded, DownloadedAt: &now}

	require.NoError(t, audit.Transition(StatusDownloaded, now.Add(time.Hour)))
	assert.Equal(t, StatusDownloaded, audit.Status)
	assert.Equal(t, now, *audit.DownloadedAt)
}

func TestTransitionRejectsIllegalJump(t *testing.T) {
	audit := &Audit{Status: StatusScheduled}

	err := audit.Transition(StatusCompleted, time.Now().UTC())
	require.Error(t, err)

	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, StatusScheduled, terr.From)
	assert.Equal(t, StatusCompleted, terr.To)
	assert.Equal(t, StatusScheduled, audit.Status)
}

func TestTransitionTerminalStatesBlock(t *testing.T) {
	for _, terminal := range []AuditStatus{StatusCompleted, StatusCancelled} {
		audit := &Audit{Status: terminal}
		err := audit.Transition(StatusInProgress, time.Now().UTC())
		require.Error(t, err, "from %s", terminal)

		var terr *InvalidTransitionError
		assert.ErrorAs(t, err, &terr)
	}
}

func TestTransitionKeepsExistingTimestamp(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	audit := &Audit{Status: StatusScheduled}

	require.NoError(t, audit.Transition(StatusCancelled, first))
	assert.Equal(t, StatusCancelled, audit.Status)
	assert.Nil(t, audit.DownloadedAt)
}

func TestNormalizeSectionIDs(t *testing.T) {
	out := NormalizeSectionIDs([]string{"b", "a", "b", "", "c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, out)

	assert.Empty(t, NormalizeSectionIDs(nil))
	assert.Empty(t, NormalizeSectionIDs([]string{"", ""}))
}

func TestParseAuditStatus(t *testing.T) {
	for _, raw := range []string{"scheduled", "downloaded", "in_progress", "completed", "cancelled"} {
		parsed, err := ParseAuditStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, AuditStatus(raw), parsed)
	}

	_, err := ParseAuditStatus("archived")
	require.Error(t, err)
}
