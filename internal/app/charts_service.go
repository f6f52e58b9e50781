package app

import (
	"context"
	"time"

	"mindspace/internal/domain"
	"mindspace/internal/insight"
)

// MaxChartDays caps trailing chart windows.
const MaxChartDays = 366

// ChartsService encapsulates chart data retrieval use cases. Every method
// takes "today" explicitly; handlers read it once per request via Today.
type ChartsService struct {
	repo domain.EntryRepository
	now  func() time.Time
	loc  *time.Location
}

// NewChartsService creates a ChartsService backed by the given repository.
// Calendar days are evaluated in loc; nil means time.Local.
func NewChartsService(repo domain.EntryRepository, loc *time.Location) *ChartsService {
	if loc == nil {
		loc = time.Local
	}
	return &ChartsService{repo: repo, now: time.Now, loc: loc}
}

// WithClock replaces the service clock.
func (s *ChartsService) WithClock(now func() time.Time) *ChartsService {
	s.now = now
	return s
}

// Today returns the current instant in the service's calendar location.
func (s *ChartsService) Today() time.Time {
	return s.now().In(s.loc)
}

// MoodSeries returns the mood trend for the last days days ending on today.
func (s *ChartsService) MoodSeries(ctx context.Context, userID int64, days int, today time.Time) ([]insight.DailyMoodPoint, error) {
	days = ClampChartDays(days)
	from, to := window(today, days)
	entries, err := s.repo.ListEntriesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return insight.BuildMoodSeries(entries, days, today), nil
}

// PixelCalendar returns the year-in-pixels grid for year. A zero year means
// the year of today.
func (s *ChartsService) PixelCalendar(ctx context.Context, userID int64, year int, today time.Time) ([]insight.PixelDay, error) {
	if year == 0 {
		year = today.Year()
	}
	loc := today.Location()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(1, 0, 0)
	entries, err := s.repo.ListEntriesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return insight.BuildYearPixels(entries, year, loc), nil
}

// RecentPixels returns the trailing pixel strip of the last days days.
func (s *ChartsService) RecentPixels(ctx context.Context, userID int64, days int, today time.Time) ([]insight.PixelDay, error) {
	days = ClampChartDays(days)
	from, to := window(today, days)
	entries, err := s.repo.ListEntriesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return insight.BuildRecentPixels(entries, days, today), nil
}

// Week returns the Monday-first strip of the current week.
func (s *ChartsService) Week(ctx context.Context, userID int64, today time.Time) ([]insight.PixelDay, error) {
	loc := today.Location()
	d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	from := d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
	entries, err := s.repo.ListEntriesBetween(ctx, userID, from, from.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	return insight.BuildWeek(entries, today), nil
}

// Streak returns the journaling streak as of today.
func (s *ChartsService) Streak(ctx context.Context, userID int64, flexible bool, today time.Time) (insight.Streak, error) {
	entries, err := s.repo.ListAllEntries(ctx, userID)
	if err != nil {
		return insight.Streak{}, err
	}
	return insight.ComputeStreak(entries, today, flexible), nil
}

// Forecast projects tomorrow's mood from the most recent entries. The bool
// is false when there is not enough history.
func (s *ChartsService) Forecast(ctx context.Context, userID int64) (insight.MoodForecast, bool, error) {
	entries, err := s.repo.ListRecentEntries(ctx, userID, insight.ForecastWindow)
	if err != nil {
		return insight.MoodForecast{}, false, err
	}
	f, ok := insight.Forecast(entries)
	return f, ok, nil
}

// ClampChartDays bounds a chart window to [1, MaxChartDays].
func ClampChartDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxChartDays {
		return MaxChartDays
	}
	return days
}

// window returns the half-open instant range covering days calendar days
// ending on today.
func window(today time.Time, days int) (time.Time, time.Time) {
	loc := today.Location()
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return end.AddDate(0, 0, -days), end
}
