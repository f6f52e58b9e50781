package domain

import (
	"context"
	"time"
)

// Scale is the ordinal range a pulse value was captured on.
type Scale int

const (
	// ScaleTen is the 1-10 range of the pulse capture. The zero Scale means ScaleTen.
	ScaleTen Scale = 10
	// ScaleFive is the 1-5 range used by the mood picker.
	ScaleFive Scale = 5
)

// Max returns the top of the range.
func (s Scale) Max() int {
	if s == ScaleFive {
		return 5
	}
	return 10
}

// Pulse is the raw mood/energy pair recorded with an entry.
type Pulse struct {
	Mood   float64 `json:"mood"`
	Energy float64 `json:"energy"`
	Scale  Scale   `json:"scale,omitempty"`
}

// Level classifies the pulse mood.
func (p Pulse) Level() MoodLevel {
	return Classify(Normalize(p.Mood, p.Scale))
}

// Reframe is a cognitive-reframe pair: a negative thought and its rewrite.
type Reframe struct {
	NegativeThought string `json:"negativeThought"`
	ReframedThought string `json:"reframedThought"`
}

// JournalEntry is one user-authored journal record.
type JournalEntry struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"userId"`
	Date         time.Time `json:"date"`
	Pulse        Pulse     `json:"pulse"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags,omitempty"`
	Gratitudes   []string  `json:"gratitudes,omitempty"`
	Worries      string    `json:"worries,omitempty"`
	SleepHours   *float64  `json:"sleepHours,omitempty"`
	SleepQuality *int      `json:"sleepQuality,omitempty"`
	Reframe      *Reframe  `json:"reframe,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EntryRepository is the port for journal entry persistence.
type EntryRepository interface {
	AddEntry(ctx context.Context, e JournalEntry) (*JournalEntry, error)
	GetEntry(ctx context.Context, userID int64, id string) (*JournalEntry, error)
	DeleteEntry(ctx context.Context, userID int64, id string) (bool, error)
	ListRecentEntries(ctx context.Context, userID int64, limit int) ([]JournalEntry, error)
	// LatestWrittenEntry returns the entry with the newest CreatedAt, or nil.
	LatestWrittenEntry(ctx context.Context, userID int64) (*JournalEntry, error)
	// ListEntriesBetween returns entries with from <= Date < to, oldest first.
	ListEntriesBetween(ctx context.Context, userID int64, from, to time.Time) ([]JournalEntry, error)
	ListAllEntries(ctx context.Context, userID int64) ([]JournalEntry, error)
}
