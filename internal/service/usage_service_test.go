package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestCalendarDaysBetween(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"same instant", "2024-01-01T08:00:00Z", "2024-01-01T08:00:00Z", 1},
		{"same day different clock", "2024-01-01T08:00:00Z", "2024-01-01T18:30:00Z", 1},
		{"overnight", "2024-01-01T23:59:00Z", "2024-01-02T00:01:00Z", 2},
		{"two nights", "2024-01-01T10:00:00Z", "2024-01-03T09:00:00Z", 3},
		{"month boundary", "2024-01-31T12:00:00Z", "2024-02-02T12:00:00Z", 3},
		{"leap day", "2024-02-28T12:00:00Z", "2024-03-01T12:00:00Z", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalendarDaysBetween(mustTime(t, tc.start), mustTime(t, tc.end))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDayKeysInRange(t *testing.T) {
	keys := DayKeysInRange(mustTime(t, "2024-01-30T22:00:00Z"), mustTime(t, "2024-02-01T06:00:00Z"))
	assert.Equal(t, []string{"2024-01-30", "2024-01-31", "2024-02-01"}, keys)

	single := DayKeysInRange(mustTime(t, "2024-01-01T08:00:00Z"), mustTime(t, "2024-01-01T18:00:00Z"))
	assert.Equal(t, []string{"2024-01-01"}, single)

	assert.Empty(t, DayKeysInRange(mustTime(t, "2024-01-02T00:00:00Z"), mustTime(t, "2024-01-01T00:00:00Z")))
}

func TestCloseOpenSessionBackfillsDays(t *testing.T) {
	repo := newStubUsageRepo()
	usage := NewUsageService(repo)

	taken := mustTime(t, "2024-01-01T08:00:00Z")
	require.NoError(t, usage.OpenSessionIfNoneTx(nil, 1, taken))

	days, added, err := usage.CloseOpenSessionTx(nil, 1, mustTime(t, "2024-01-03T09:00:00Z"))
	require.NoError(t, err)
	require.NotNil(t, days)
	assert.Equal(t, 3, *days)
	assert.Equal(t, 3, added)

	total, err := usage.TotalUniqueDays(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestCloseOpenSessionWithoutOpenSession(t *testing.T) {
	usage := NewUsageService(newStubUsageRepo())

	days, added, err := usage.CloseOpenSessionTx(nil, 1, mustTime(t, "2024-01-03T09:00:00Z"))
	require.NoError(t, err)
	assert.Nil(t, days)
	assert.Zero(t, added)
}

func TestOpenSessionIfNoneIsIdempotent(t *testing.T) {
	repo := newStubUsageRepo()
	usage := NewUsageService(repo)

	first := mustTime(t, "2024-01-01T08:00:00Z")
	require.NoError(t, usage.OpenSessionIfNoneTx(nil, 1, first))
	require.NoError(t, usage.OpenSessionIfNoneTx(nil, 1, first.Add(2*time.Hour)))

	assert.Len(t, repo.sessions, 1)
	open, err := usage.OpenTakenTsTx(nil, 1)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.True(t, open.Equal(first))
}

func TestUniqueDaysMonotonicAcrossSessions(t *testing.T) {
	repo := newStubUsageRepo()
	usage := NewUsageService(repo)

	// Morning cycle.
	require.NoError(t, usage.OpenSessionIfNoneTx(nil, 1, mustTime(t, "2024-01-01T08:00:00Z")))
	_, added, err := usage.CloseOpenSessionTx(nil, 1, mustTime(t, "2024-01-01T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	// Afternoon cycle on the same day adds no new unique day.
	require.NoError(t, usage.OpenSessionIfNoneTx(nil, 1, mustTime(t, "2024-01-01T14:00:00Z")))
	days, added, err := usage.CloseOpenSessionTx(nil, 1, mustTime(t, "2024-01-01T18:00:00Z"))
	require.NoError(t, err)
	require.NotNil(t, days)
	assert.Equal(t, 1, *days)
	assert.Zero(t, added)

	total, err := usage.TotalUniqueDays(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
