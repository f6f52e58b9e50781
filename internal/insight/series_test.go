package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindspace/internal/domain"
)

func day(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}

func fivePoint(id string, at time.Time, mood float64) domain.JournalEntry {
	return domain.JournalEntry{ID: id, Date: at, Pulse: domain.Pulse{Mood: mood, Scale: domain.ScaleFive}}
}

func TestBuildMoodSeries_SkipsEmptyDays(t *testing.T) {
	entries := []domain.JournalEntry{
		fivePoint("a", day(2024, 1, 1, 9), 5),
		fivePoint("b", day(2024, 1, 3, 9), 1),
	}

	got := BuildMoodSeries(entries, 3, day(2024, 1, 3, 18))

	assert.Equal(t, []DailyMoodPoint{
		{Date: "2024-01-01", Mood: domain.MoodGreat, Value: 5},
		{Date: "2024-01-03", Mood: domain.MoodBad, Value: 1},
	}, got)
}

func TestBuildMoodSeries_Empty(t *testing.T) {
	got := BuildMoodSeries(nil, 14, day(2024, 1, 3, 0))
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = BuildMoodSeries([]domain.JournalEntry{fivePoint("a", day(2023, 6, 1, 0), 3)}, 14, day(2024, 1, 3, 0))
	assert.Empty(t, got, "entries outside the window are ignored")
}

func TestBuildMoodSeries_NonPositiveWindow(t *testing.T) {
	entries := []domain.JournalEntry{fivePoint("a", day(2024, 1, 3, 9), 4)}
	assert.Empty(t, BuildMoodSeries(entries, 0, day(2024, 1, 3, 12)))
	assert.Empty(t, BuildMoodSeries(entries, -7, day(2024, 1, 3, 12)))
}

func TestBuildMoodSeries_LastWrittenWins(t *testing.T) {
	entries := []domain.JournalEntry{
		fivePoint("late", day(2024, 1, 2, 21), 1),
		fivePoint("early", day(2024, 1, 2, 8), 5),
	}
	got := BuildMoodSeries(entries, 1, day(2024, 1, 2, 23))
	require.Len(t, got, 1)
	assert.Equal(t, domain.MoodBad, got[0].Mood, "the later timestamp on the same day wins")

	same := day(2024, 1, 2, 12)
	entries = []domain.JournalEntry{
		{ID: "second-write", Date: same, CreatedAt: same.Add(time.Minute), Pulse: domain.Pulse{Mood: 2, Scale: domain.ScaleFive}},
		{ID: "first-write", Date: same, CreatedAt: same, Pulse: domain.Pulse{Mood: 5, Scale: domain.ScaleFive}},
	}
	got = BuildMoodSeries(entries, 1, same)
	require.Len(t, got, 1)
	assert.Equal(t, domain.MoodLow, got[0].Mood, "equal dates fall back to CreatedAt")

	entries = []domain.JournalEntry{
		fivePoint("one", same, 5),
		fivePoint("two", same, 3),
	}
	got = BuildMoodSeries(entries, 1, same)
	require.Len(t, got, 1)
	assert.Equal(t, domain.MoodOkay, got[0].Mood, "identical timestamps keep the later input element")
}

func TestBuildMoodSeries_SkipsUndatedEntries(t *testing.T) {
	entries := []domain.JournalEntry{
		{ID: "broken", Pulse: domain.Pulse{Mood: 10}},
		{ID: "ok", Date: day(2024, 1, 3, 10), Pulse: domain.Pulse{Mood: 8}},
	}
	got := BuildMoodSeries(entries, 7, day(2024, 1, 3, 12))
	assert.Equal(t, []DailyMoodPoint{{Date: "2024-01-03", Mood: domain.MoodGood, Value: 4}}, got)
}

func TestBuildMoodSeries_UsesTodaysLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-01-02 20:00 UTC is already the 3rd in Tokyo.
	entries := []domain.JournalEntry{fivePoint("a", day(2024, 1, 2, 20), 4)}

	got := BuildMoodSeries(entries, 1, time.Date(2024, 1, 3, 12, 0, 0, 0, tokyo))
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-03", got[0].Date)

	got = BuildMoodSeries(entries, 1, day(2024, 1, 3, 12))
	assert.Empty(t, got, "in UTC the entry belongs to the previous day")
}

func TestBuildMoodSeries_Properties(t *testing.T) {
	today := day(2024, 3, 31, 15)
	var entries []domain.JournalEntry
	for i := 0; i < 120; i += 3 {
		at := today.AddDate(0, 0, -i)
		entries = append(entries, fivePoint("x", at, float64(i%5+1)))
		entries = append(entries, fivePoint("y", at.Add(-time.Hour), 3))
	}

	for _, n := range []int{1, 7, 14, 30, 90, 366} {
		got := BuildMoodSeries(entries, n, today)
		assert.LessOrEqual(t, len(got), n)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1].Date, got[i].Date, "dates must be strictly ascending")
		}
		for _, p := range got {
			assert.True(t, p.Mood.Valid())
			assert.Equal(t, p.Mood.Weight(), p.Value)
		}
		assert.Equal(t, got, BuildMoodSeries(entries, n, today), "same input, same output")
	}
}
