package insight

import (
	"time"

	"mindspace/internal/domain"
)

// PixelDay is one cell of a pixel grid. Mood is domain.NoMood when nothing
// was logged that day.
type PixelDay struct {
	Date string           `json:"date"`
	Mood domain.MoodLevel `json:"mood,omitempty"`
}

// Logged reports whether the day has an entry.
func (p PixelDay) Logged() bool { return p.Mood.Valid() }

// BuildPixelCalendar returns the year-in-pixels grid for the calendar year
// containing today, in today's location.
func BuildPixelCalendar(entries []domain.JournalEntry, today time.Time) []PixelDay {
	return BuildYearPixels(entries, today.Year(), today.Location())
}

// BuildYearPixels returns one cell per day of year, January 1st first. The
// result always has 365 or 366 cells.
func BuildYearPixels(entries []domain.JournalEntry, year int, loc *time.Location) []PixelDay {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	n := daysIn(year)
	return fillPixels(latestByDay(entries, loc), start, n)
}

// BuildRecentPixels returns a strip of the last days days ending on today.
func BuildRecentPixels(entries []domain.JournalEntry, days int, today time.Time) []PixelDay {
	if days <= 0 {
		return []PixelDay{}
	}
	loc := today.Location()
	start := midnight(today, loc).AddDate(0, 0, -(days - 1))
	return fillPixels(latestByDay(entries, loc), start, days)
}

// BuildWeek returns the Monday-to-Sunday strip of the week containing today.
func BuildWeek(entries []domain.JournalEntry, today time.Time) []PixelDay {
	loc := today.Location()
	day := midnight(today, loc)
	offset := (int(day.Weekday()) + 6) % 7
	return fillPixels(latestByDay(entries, loc), day.AddDate(0, 0, -offset), 7)
}

func fillPixels(byDay map[string]*domain.JournalEntry, start time.Time, n int) []PixelDay {
	out := make([]PixelDay, n)
	for i := range out {
		k := start.AddDate(0, 0, i).Format(dayLayout)
		out[i].Date = k
		if e, ok := byDay[k]; ok {
			out[i].Mood = e.Pulse.Level()
		}
	}
	return out
}

func daysIn(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}
