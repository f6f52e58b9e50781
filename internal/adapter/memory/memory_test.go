package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mindspace/internal/domain"
)

func at(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func TestEntryRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	userID := int64(1)

	// Add entries out of order
	for _, e := range []domain.JournalEntry{
		{ID: "b", UserID: userID, Date: at(2, 9), Pulse: domain.Pulse{Mood: 6}},
		{ID: "a", UserID: userID, Date: at(1, 9), Pulse: domain.Pulse{Mood: 8}},
		{ID: "c", UserID: userID, Date: at(3, 9), Pulse: domain.Pulse{Mood: 4}},
		{ID: "x", UserID: 2, Date: at(2, 10), Pulse: domain.Pulse{Mood: 1}},
	} {
		if _, err := db.AddEntry(ctx, e); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}

	if _, err := db.AddEntry(ctx, domain.JournalEntry{ID: "a", UserID: userID}); err == nil {
		t.Error("expected duplicate id to fail")
	}

	// Recent is newest first
	recent, err := db.ListRecentEntries(ctx, userID, 2)
	if err != nil {
		t.Fatalf("ListRecentEntries: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "c" || recent[1].ID != "b" {
		t.Errorf("unexpected recent entries %v", ids(recent))
	}

	// Between is half-open and ascending
	between, err := db.ListEntriesBetween(ctx, userID, at(1, 9), at(3, 9))
	if err != nil {
		t.Fatalf("ListEntriesBetween: %v", err)
	}
	if got := ids(between); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected window %v", got)
	}

	all, _ := db.ListAllEntries(ctx, userID)
	if got := ids(all); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("unexpected all entries %v", got)
	}

	// Other user sees only its own
	other, _ := db.ListAllEntries(ctx, 2)
	if len(other) != 1 {
		t.Errorf("expected 1 entry for other user, got %d", len(other))
	}
	if e, _ := db.GetEntry(ctx, 2, "a"); e != nil {
		t.Error("expected entry of another user to be invisible")
	}

	// Delete
	ok, err := db.DeleteEntry(ctx, userID, "b")
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if !ok {
		t.Error("expected true")
	}
	ok, _ = db.DeleteEntry(ctx, userID, "b")
	if ok {
		t.Error("expected false for second delete")
	}
	if e, _ := db.GetEntry(ctx, userID, "b"); e != nil {
		t.Error("expected nil (deleted)")
	}
}

func TestLatestWrittenEntry(t *testing.T) {
	db := New()
	ctx := context.Background()

	if e, err := db.LatestWrittenEntry(ctx, 1); err != nil || e != nil {
		t.Fatalf("expected nil for empty journal, got %v, %v", e, err)
	}

	// A backdated entry written after today's one is still the latest write.
	for _, e := range []domain.JournalEntry{
		{ID: "today", UserID: 1, Date: at(10, 20), CreatedAt: at(10, 20)},
		{ID: "backdated", UserID: 1, Date: at(8, 9), CreatedAt: at(10, 21)},
		{ID: "other", UserID: 2, Date: at(10, 22), CreatedAt: at(10, 22)},
	} {
		if _, err := db.AddEntry(ctx, e); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}

	e, err := db.LatestWrittenEntry(ctx, 1)
	if err != nil {
		t.Fatalf("LatestWrittenEntry: %v", err)
	}
	if e == nil || e.ID != "backdated" {
		t.Errorf("expected backdated, got %v", e)
	}
}

func TestEntryRepository_ReturnsCopies(t *testing.T) {
	db := New()
	ctx := context.Background()
	_, _ = db.AddEntry(ctx, domain.JournalEntry{ID: "a", UserID: 1, Date: at(1, 9), Content: "orig"})

	e, _ := db.GetEntry(ctx, 1, "a")
	e.Content = "changed"

	again, _ := db.GetEntry(ctx, 1, "a")
	if again.Content != "orig" {
		t.Errorf("stored entry was mutated: %q", again.Content)
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	seed := `{"entries":[
		{"date":"2024-01-01T09:00:00Z","pulse":{"mood":5,"scale":5},"content":"first"},
		{"id":"fixed","userId":3,"date":"2024-01-03T09:00:00Z","pulse":{"mood":2}}
	]}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	db := New()
	n, err := db.LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}

	mine, _ := db.ListAllEntries(context.Background(), 1)
	if len(mine) != 1 || mine[0].ID == "" || mine[0].Pulse.Scale != domain.ScaleFive {
		t.Errorf("unexpected seeded entry %+v", mine)
	}
	if e, _ := db.GetEntry(context.Background(), 3, "fixed"); e == nil {
		t.Error("expected seeded entry for user 3")
	}
}

func TestLoadSeed_Missing(t *testing.T) {
	if _, err := New().LoadSeed(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.Create(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != "bob" {
		t.Errorf("expected bob, got %s", u.Username)
	}

	if _, err := db.Create(ctx, "bob", "other"); err == nil {
		t.Error("expected duplicate username to fail")
	}

	u2, err := db.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u2 == nil || u2.ID != u.ID {
		t.Error("failed to retrieve user")
	}

	count, _ := db.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestSessionRepository(t *testing.T) {
	db := New()
	repo := db.NewSessionRepo()
	ctx := context.Background()

	err := repo.Create(ctx, 1, "token123", "agent", "127.0.0.1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = repo.Create(ctx, 1, "stale", "agent", "", time.Now().Add(-time.Hour))

	sess, err := repo.GetByToken(ctx, "token123")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.UserAgent != "agent" || sess.IP != "127.0.0.1" {
		t.Errorf("unexpected client info %+v", sess)
	}

	if err := repo.DeleteExpired(ctx); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if s, _ := repo.GetByToken(ctx, "stale"); s != nil {
		t.Error("expected expired session swept")
	}

	_ = repo.Delete(ctx, "token123")
	sess, _ = repo.GetByToken(ctx, "token123")
	if sess != nil {
		t.Error("expected nil (deleted)")
	}
}

func ids(entries []domain.JournalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
