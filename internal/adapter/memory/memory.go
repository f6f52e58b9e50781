// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"mindspace/internal/domain"

	"github.com/google/uuid"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	entries  []domain.JournalEntry
	users    []*domain.User
	sessions map[string]*domain.Session

	userIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.EntryRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// seedFile is the on-disk layout accepted by LoadSeed.
type seedFile struct {
	Entries []domain.JournalEntry `json:"entries"`
}

// LoadSeed reads journal entries from a JSON file of the form
// {"entries": [...]}. Entries without a user belong to user 1.
func (db *DB) LoadSeed(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(b, &seed); err != nil {
		return 0, fmt.Errorf("decode seed %s: %w", path, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	for _, e := range seed.Entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.UserID == 0 {
			e.UserID = 1
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = e.Date
		}
		db.entries = append(db.entries, e)
	}
	return len(seed.Entries), nil
}

// --- EntryRepository ---

// AddEntry stores an entry.
func (db *DB) AddEntry(ctx context.Context, e domain.JournalEntry) (*domain.JournalEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	for _, cur := range db.entries {
		if cur.ID == e.ID {
			return nil, fmt.Errorf("entry %s already exists", e.ID)
		}
	}
	e.CreatedAt = e.CreatedAt.UTC()
	db.entries = append(db.entries, e)
	out := e
	return &out, nil
}

// GetEntry returns an entry by ID, or nil if it does not exist.
func (db *DB) GetEntry(ctx context.Context, userID int64, id string) (*domain.JournalEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, e := range db.entries {
		if e.UserID == userID && e.ID == id {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

// DeleteEntry removes an entry by ID.
func (db *DB) DeleteEntry(ctx context.Context, userID int64, id string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, e := range db.entries {
		if e.UserID == userID && e.ID == id {
			db.entries = append(db.entries[:i], db.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListRecentEntries returns the newest entries up to limit.
func (db *DB) ListRecentEntries(ctx context.Context, userID int64, limit int) ([]domain.JournalEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := db.filter(userID, func(domain.JournalEntry) bool { return true })
	sort.SliceStable(result, func(i, j int) bool {
		return later(result[i], result[j])
	})

	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// LatestWrittenEntry returns the most recently written entry, or nil.
func (db *DB) LatestWrittenEntry(ctx context.Context, userID int64) (*domain.JournalEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.JournalEntry
	for i := range db.entries {
		e := &db.entries[i]
		if e.UserID != userID {
			continue
		}
		// Later slice position wins a CreatedAt tie.
		if latest == nil || !e.CreatedAt.Before(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

// ListEntriesBetween returns entries with from <= Date < to, oldest first.
func (db *DB) ListEntriesBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.JournalEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := db.filter(userID, func(e domain.JournalEntry) bool {
		return !e.Date.Before(from) && e.Date.Before(to)
	})
	sortAscending(result)
	return result, nil
}

// ListAllEntries returns every entry of the user, oldest first.
func (db *DB) ListAllEntries(ctx context.Context, userID int64) ([]domain.JournalEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := db.filter(userID, func(domain.JournalEntry) bool { return true })
	sortAscending(result)
	return result, nil
}

// filter copies the matching entries of userID. Callers hold db.mu.
func (db *DB) filter(userID int64, keep func(domain.JournalEntry) bool) []domain.JournalEntry {
	result := make([]domain.JournalEntry, 0)
	for _, e := range db.entries {
		if e.UserID == userID && keep(e) {
			result = append(result, e)
		}
	}
	return result
}

func later(a, b domain.JournalEntry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func sortAscending(entries []domain.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return later(entries[j], entries[i])
	})
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		out := *s
		return &out, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
