package insight

import (
	"sort"
	"time"

	"mindspace/internal/domain"
)

// Streak summarises journaling consistency.
type Streak struct {
	Current       int        `json:"current"`
	Longest       int        `json:"longest"`
	Total         int        `json:"total"`
	LastEntryDate *time.Time `json:"lastEntryDate,omitempty"`
	Flexible      bool       `json:"flexibleMode"`
	GraceDaysLeft int        `json:"graceDaysLeft"`
}

// ComputeStreak counts consecutive journaling days up to today. The current
// run may end yesterday when today has no entry yet. With flexible set a
// single missing day between two logged days does not break a run.
func ComputeStreak(entries []domain.JournalEntry, today time.Time, flexible bool) Streak {
	loc := today.Location()
	st := Streak{Flexible: flexible}

	logged := make(map[time.Time]bool)
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		logged[midnight(e.Date, loc)] = true
	}
	if len(logged) == 0 {
		return st
	}

	days := make([]time.Time, 0, len(logged))
	for d := range logged {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	maxGap := 1
	if flexible {
		maxGap = 2
	}

	st.Total = len(days)
	run := 1
	st.Longest = 1
	for i := 1; i < len(days); i++ {
		if calendarDaysBetween(days[i-1], days[i]) <= maxGap {
			run++
		} else {
			run = 1
		}
		st.Longest = max(st.Longest, run)
	}

	day := midnight(today, loc)
	last := days[len(days)-1]
	st.LastEntryDate = &last

	cursor := day
	if !logged[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for {
		if logged[cursor] {
			st.Current++
			cursor = cursor.AddDate(0, 0, -1)
			continue
		}
		prev := cursor.AddDate(0, 0, -1)
		if flexible && st.Current > 0 && logged[prev] {
			cursor = prev
			continue
		}
		break
	}

	since := max(calendarDaysBetween(last, day), 0)
	st.GraceDaysLeft = max(0, maxGap-since)
	return st
}

// calendarDaysBetween counts midnights from a to b; both must be midnights
// in the same location.
func calendarDaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
