// Package insight turns journal entries into the per-day mood shapes the
// charts render: the trailing mood series, pixel grids, streaks and the
// short-term forecast. Everything here is pure; callers pass "today" in.
package insight

import (
	"time"

	"mindspace/internal/domain"
)

const dayLayout = "2006-01-02"

// dayKey formats t as a calendar day in loc.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// midnight truncates t to the start of its calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// newer reports whether a replaces b under the same-day rule: the later
// Date wins, then the later CreatedAt. Equal entries keep the later one seen.
func newer(a, b *domain.JournalEntry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return true
}

// latestByDay buckets entries by calendar day in loc and keeps one entry per
// day. Entries without a date are skipped.
func latestByDay(entries []domain.JournalEntry, loc *time.Location) map[string]*domain.JournalEntry {
	days := make(map[string]*domain.JournalEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Date.IsZero() {
			continue
		}
		k := dayKey(e.Date, loc)
		if cur, ok := days[k]; !ok || newer(e, cur) {
			days[k] = e
		}
	}
	return days
}
