package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustReconstruct(t *testing.T, id, day string, createdAt time.Time, content string) *Memory {
	t.Helper()
	m, err := ReconstructMemory(id, "user-1", content, day, createdAt, nil)
	require.NoError(t, err)
	return m
}

func TestTimeline_GroupByDay(t *testing.T) {
	now := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)
	timeline := NewTimeline(fixedClock(now))

	memories := []*Memory{
		mustReconstruct(t, "a", "2026-02-07", time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC), "yesterday morning"),
		mustReconstruct(t, "b", "2026-02-08", time.Date(2026, 2, 8, 8, 0, 0, 0, time.UTC), "today early"),
		mustReconstruct(t, "c", "2026-02-08", time.Date(2026, 2, 8, 11, 0, 0, 0, time.UTC), "today late"),
		mustReconstruct(t, "d", "2026-02-07", time.Date(2026, 2, 7, 20, 0, 0, 0, time.UTC), "yesterday evening"),
	}

	days := timeline.GroupByDay(memories)

	require.Len(t, days, 2)

	today := days[0]
	assert.Equal(t, "2026-02-08", today.Day)
	assert.True(t, today.IsToday)
	assert.Equal(t, "Today, 8 Feb 2026", today.Label)
	// Newest entry's raw content is the day's essence.
	assert.Equal(t, "today late", today.Essence)
	assert.Equal(t, []string{"today late", "today early"}, today.Inputs)

	yesterday := days[1]
	assert.Equal(t, "2026-02-07", yesterday.Day)
	assert.False(t, yesterday.IsToday)
	assert.Equal(t, "Saturday, 7 Feb 2026", yesterday.Label)
	assert.Equal(t, "yesterday evening", yesterday.Essence)
	assert.Equal(t, []string{"yesterday evening", "yesterday morning"}, yesterday.Inputs)
}

func TestTimeline_GroupByDay_Empty(t *testing.T) {
	timeline := NewTimeline(nil)

	days := timeline.GroupByDay(nil)

	require.NotNil(t, days)
	assert.Empty(t, days)
}

func TestTimeline_GroupByDay_DaysDescend(t *testing.T) {
	now := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)
	timeline := NewTimeline(fixedClock(now))

	memories := []*Memory{
		mustReconstruct(t, "a", "2026-01-31", time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC), "january"),
		mustReconstruct(t, "b", "2026-02-08", time.Date(2026, 2, 8, 9, 0, 0, 0, time.UTC), "february"),
		mustReconstruct(t, "c", "2025-12-25", time.Date(2025, 12, 25, 9, 0, 0, 0, time.UTC), "december"),
	}

	days := timeline.GroupByDay(memories)

	require.Len(t, days, 3)
	assert.Equal(t, "2026-02-08", days[0].Day)
	assert.Equal(t, "2026-01-31", days[1].Day)
	assert.Equal(t, "2025-12-25", days[2].Day)
}
