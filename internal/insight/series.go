package insight

import (
	"time"

	"mindspace/internal/domain"
)

// DailyMoodPoint is one bar of the mood trend chart.
type DailyMoodPoint struct {
	Date  string           `json:"date"`
	Mood  domain.MoodLevel `json:"mood"`
	Value int              `json:"value"`
}

// BuildMoodSeries returns one point per day of the windowDays-long window
// ending on today (inclusive) for which an entry exists, oldest first. Days
// without an entry are left out, so an empty slice means nothing was logged
// in the window.
func BuildMoodSeries(entries []domain.JournalEntry, windowDays int, today time.Time) []DailyMoodPoint {
	points := make([]DailyMoodPoint, 0, min(max(windowDays, 0), len(entries)))
	if windowDays <= 0 || len(entries) == 0 {
		return points
	}

	loc := today.Location()
	byDay := latestByDay(entries, loc)
	start := midnight(today, loc)

	for i := windowDays - 1; i >= 0; i-- {
		k := start.AddDate(0, 0, -i).Format(dayLayout)
		e, ok := byDay[k]
		if !ok {
			continue
		}
		lvl := e.Pulse.Level()
		points = append(points, DailyMoodPoint{Date: k, Mood: lvl, Value: lvl.Weight()})
	}
	return points
}
