package journal

import (
	"sort"
	"time"
)

// labelLayout renders "8 Feb 2026"; day digests prefix it with either
// "Today" or the full weekday name.
const labelLayout = "2 Jan 2006"

// DayDigest is a read-time projection of one calendar day's memories.
// It owns nothing and is recomputed on every read.
type DayDigest struct {
	Day     string   `json:"day"`
	Label   string   `json:"label"`
	IsToday bool     `json:"isToday"`
	Essence string   `json:"essence"`
	Inputs  []string `json:"rawInputs"`
}

// Timeline groups a single owner's memories into per-day digests. The now
// function supplies the wall clock used for the today comparison.
type Timeline struct {
	now func() time.Time
}

// NewTimeline creates a timeline aggregator using the given clock. A nil
// clock falls back to time.Now.
func NewTimeline(now func() time.Time) *Timeline {
	if now == nil {
		now = time.Now
	}
	return &Timeline{now: now}
}

// GroupByDay partitions memories by their stored day key and orders the
// result most-recent-first. Within a day, memories are ordered by creation
// time descending and the newest memory's raw content becomes the day's
// essence. Empty input yields an empty (non-nil) slice.
func (t *Timeline) GroupByDay(memories []*Memory) []DayDigest {
	byDay := make(map[string][]*Memory)
	for _, m := range memories {
		byDay[m.Day()] = append(byDay[m.Day()], m)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	// Lexicographic descending on YYYY-MM-DD is chronological descending.
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	today := t.now().Format(DayLayout)

	digests := make([]DayDigest, 0, len(days))
	for _, day := range days {
		group := byDay[day]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt().After(group[j].CreatedAt())
		})

		inputs := make([]string, len(group))
		for i, m := range group {
			inputs[i] = m.Content()
		}

		digests = append(digests, DayDigest{
			Day:     day,
			Label:   dayLabel(day, day == today),
			IsToday: day == today,
			Essence: group[0].Content(),
			Inputs:  inputs,
		})
	}

	return digests
}

// dayLabel renders the human-readable heading for a day group. Days that
// fail to parse keep their raw key rather than erroring a read.
func dayLabel(day string, isToday bool) string {
	d, err := time.Parse(DayLayout, day)
	if err != nil {
		return day
	}
	if isToday {
		return "Today, " + d.Format(labelLayout)
	}
	return d.Format("Monday, ") + d.Format(labelLayout)
}
