package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"mindspace/internal/domain"
)

// openTestDB connects to MINDSPACE_TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("MINDSPACE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("MINDSPACE_TEST_DATABASE_URL not set")
	}
	db, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEntryRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := time.Now().UnixNano()
	day := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	quality := 6
	in := domain.JournalEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         day,
		Pulse:        domain.Pulse{Mood: 7, Energy: 5, Scale: domain.ScaleTen},
		Content:      "postgres round trip",
		Tags:         []string{"work"},
		SleepQuality: &quality,
		CreatedAt:    day,
	}
	out, err := db.AddEntry(ctx, in)
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if out.ID != in.ID || len(out.Tags) != 1 || out.Tags[0] != "work" {
		t.Errorf("unexpected entry %+v", out)
	}
	if out.SleepQuality == nil || *out.SleepQuality != 6 {
		t.Errorf("expected sleep quality 6, got %v", out.SleepQuality)
	}

	between, err := db.ListEntriesBetween(ctx, userID, day.Add(-time.Hour), day.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListEntriesBetween: %v", err)
	}
	if len(between) != 1 {
		t.Errorf("expected 1 entry, got %d", len(between))
	}

	ok, err := db.DeleteEntry(ctx, userID, in.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteEntry: %v %v", ok, err)
	}
	if e, _ := db.GetEntry(ctx, userID, in.ID); e != nil {
		t.Error("expected nil (deleted)")
	}
}
