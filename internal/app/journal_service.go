package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"mindspace/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrInvalidEntry wraps every journal entry validation failure.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrEntryNotFound indicates that the requested entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
)

const (
	maxContentRunes = 20000
	maxWorryRunes   = 10000
	maxGratitudes   = 3
	maxTags         = 20
)

// JournalService encapsulates journal entry use cases.
type JournalService struct {
	repo domain.EntryRepository
	now  func() time.Time
}

// NewJournalService creates a JournalService backed by the given repository.
func NewJournalService(repo domain.EntryRepository) *JournalService {
	return &JournalService{repo: repo, now: time.Now}
}

// WithClock replaces the service clock.
func (s *JournalService) WithClock(now func() time.Time) *JournalService {
	s.now = now
	return s
}

// RecordEntry validates and stores a new entry for userID. A zero Date is
// set to the current time.
func (s *JournalService) RecordEntry(ctx context.Context, userID int64, draft domain.JournalEntry) (*domain.JournalEntry, error) {
	e, err := normalizeEntry(draft)
	if err != nil {
		return nil, err
	}
	now := s.now()
	e.ID = uuid.NewString()
	e.UserID = userID
	e.CreatedAt = now.UTC()
	if e.Date.IsZero() {
		e.Date = now
	}
	return s.repo.AddEntry(ctx, e)
}

// Get returns a single entry.
func (s *JournalService) Get(ctx context.Context, userID int64, id string) (*domain.JournalEntry, error) {
	e, err := s.repo.GetEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

// ListRecent returns the most recent entries up to limit, newest first.
func (s *JournalService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.JournalEntry, error) {
	return s.repo.ListRecentEntries(ctx, userID, limit)
}

// Delete removes an entry.
func (s *JournalService) Delete(ctx context.Context, userID int64, id string) error {
	deleted, err := s.repo.DeleteEntry(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}

// UndoLast deletes the entry written last, whatever its date.
func (s *JournalService) UndoLast(ctx context.Context, userID int64) (bool, string, error) {
	last, err := s.repo.LatestWrittenEntry(ctx, userID)
	if err != nil {
		return false, "", err
	}
	if last == nil {
		return false, "", nil
	}
	if _, err := s.repo.DeleteEntry(ctx, userID, last.ID); err != nil {
		return false, "", err
	}
	return true, last.ID, nil
}

func normalizeEntry(e domain.JournalEntry) (domain.JournalEntry, error) {
	if e.Pulse.Scale != domain.ScaleFive {
		e.Pulse.Scale = domain.ScaleTen
	}
	top := float64(e.Pulse.Scale.Max())
	if !inRange(e.Pulse.Mood, 1, top) || !whole(e.Pulse.Mood) {
		return e, fmt.Errorf("%w: mood must be a whole number within [1, %d]", ErrInvalidEntry, e.Pulse.Scale.Max())
	}
	if e.Pulse.Energy != 0 && (!inRange(e.Pulse.Energy, 1, top) || !whole(e.Pulse.Energy)) {
		return e, fmt.Errorf("%w: energy must be a whole number within [1, %d]", ErrInvalidEntry, e.Pulse.Scale.Max())
	}

	e.Content = strings.TrimSpace(e.Content)
	e.Worries = strings.TrimSpace(e.Worries)
	if utf8.RuneCountInString(e.Content) > maxContentRunes {
		return e, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidEntry, maxContentRunes)
	}
	if utf8.RuneCountInString(e.Worries) > maxWorryRunes {
		return e, fmt.Errorf("%w: worries exceed %d characters", ErrInvalidEntry, maxWorryRunes)
	}

	e.Gratitudes = compact(e.Gratitudes, false)
	if len(e.Gratitudes) > maxGratitudes {
		return e, fmt.Errorf("%w: at most %d gratitudes", ErrInvalidEntry, maxGratitudes)
	}
	e.Tags = compact(e.Tags, true)
	if len(e.Tags) > maxTags {
		return e, fmt.Errorf("%w: at most %d tags", ErrInvalidEntry, maxTags)
	}

	if e.SleepHours != nil && !inRange(*e.SleepHours, 0, 24) {
		return e, fmt.Errorf("%w: sleepHours must be within [0, 24]", ErrInvalidEntry)
	}
	if e.SleepQuality != nil && (*e.SleepQuality < 1 || *e.SleepQuality > 10) {
		return e, fmt.Errorf("%w: sleepQuality must be within [1, 10]", ErrInvalidEntry)
	}
	if e.Reframe != nil {
		r := domain.Reframe{
			NegativeThought: strings.TrimSpace(e.Reframe.NegativeThought),
			ReframedThought: strings.TrimSpace(e.Reframe.ReframedThought),
		}
		if r.NegativeThought == "" && r.ReframedThought == "" {
			e.Reframe = nil
		} else {
			e.Reframe = &r
		}
	}
	return e, nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func whole(v float64) bool { return v == math.Trunc(v) }

// compact trims items, drops blanks and duplicates, optionally lowercasing.
func compact(items []string, lower bool) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if lower {
			it = strings.ToLower(it)
		}
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
