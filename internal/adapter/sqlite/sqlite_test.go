package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindspace/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func at(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), path)
	require.NoError(t, err, "reopening must not rerun migrations")
	require.NoError(t, db.Close())
}

func TestEntryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	hours := 7.5
	quality := 8
	in := domain.JournalEntry{
		ID:           "e1",
		UserID:       1,
		Date:         time.Date(2024, 1, 2, 21, 30, 0, 0, time.FixedZone("CET", 3600)),
		Pulse:        domain.Pulse{Mood: 4, Energy: 3, Scale: domain.ScaleFive},
		Content:      "quiet evening",
		Tags:         []string{"home", "reading"},
		Gratitudes:   []string{"tea"},
		Worries:      "deadline",
		SleepHours:   &hours,
		SleepQuality: &quality,
		Reframe:      &domain.Reframe{NegativeThought: "behind", ReframedThought: "on track"},
		CreatedAt:    at(2, 21),
	}

	out, err := db.AddEntry(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.True(t, in.Date.Equal(out.Date))
	assert.Equal(t, in.Pulse, out.Pulse)
	assert.Equal(t, in.Tags, out.Tags)
	assert.Equal(t, in.Gratitudes, out.Gratitudes)
	assert.Equal(t, in.Worries, out.Worries)
	require.NotNil(t, out.SleepHours)
	assert.InDelta(t, 7.5, *out.SleepHours, 1e-9)
	require.NotNil(t, out.SleepQuality)
	assert.Equal(t, 8, *out.SleepQuality)
	assert.Equal(t, in.Reframe, out.Reframe)
	assert.Equal(t, domain.MoodGood, out.Pulse.Level())
}

func TestEntryOptionalFields(t *testing.T) {
	db := openTestDB(t)
	out, err := db.AddEntry(context.Background(), domain.JournalEntry{
		ID: "bare", UserID: 1, Date: at(1, 9), Pulse: domain.Pulse{Mood: 6}, CreatedAt: at(1, 9),
	})
	require.NoError(t, err)
	assert.Nil(t, out.Tags)
	assert.Nil(t, out.SleepHours)
	assert.Nil(t, out.SleepQuality)
	assert.Nil(t, out.Reframe)
	assert.Equal(t, domain.ScaleTen, out.Pulse.Scale)
}

func TestEntryQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, e := range []domain.JournalEntry{
		{ID: "b", UserID: 1, Date: at(2, 9), Pulse: domain.Pulse{Mood: 6}, CreatedAt: at(2, 9)},
		{ID: "a", UserID: 1, Date: at(1, 9), Pulse: domain.Pulse{Mood: 8}, CreatedAt: at(1, 9)},
		{ID: "c", UserID: 1, Date: at(3, 9), Pulse: domain.Pulse{Mood: 4}, CreatedAt: at(3, 9)},
		{ID: "c2", UserID: 1, Date: at(3, 9), Pulse: domain.Pulse{Mood: 2}, CreatedAt: at(3, 10)},
		{ID: "x", UserID: 2, Date: at(2, 10), Pulse: domain.Pulse{Mood: 1}, CreatedAt: at(2, 10)},
	} {
		_, err := db.AddEntry(ctx, e)
		require.NoError(t, err)
	}

	recent, err := db.ListRecentEntries(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c"}, ids(recent))

	between, err := db.ListEntriesBetween(ctx, 1, at(1, 9), at(3, 9))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(between), "window is half-open")

	all, err := db.ListAllEntries(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "c2"}, ids(all))

	missing, err := db.GetEntry(ctx, 2, "a")
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := db.DeleteEntry(ctx, 1, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.DeleteEntry(ctx, 1, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLatestWrittenEntry(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	none, err := db.LatestWrittenEntry(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	for _, e := range []domain.JournalEntry{
		{ID: "today", UserID: 1, Date: at(10, 20), Pulse: domain.Pulse{Mood: 7}, CreatedAt: at(10, 20)},
		{ID: "backdated", UserID: 1, Date: at(8, 9), Pulse: domain.Pulse{Mood: 3}, CreatedAt: at(10, 21)},
		{ID: "other", UserID: 2, Date: at(10, 22), Pulse: domain.Pulse{Mood: 5}, CreatedAt: at(10, 22)},
	} {
		_, err := db.AddEntry(ctx, e)
		require.NoError(t, err)
	}

	latest, err := db.LatestWrittenEntry(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "backdated", latest.ID, "write time wins over entry date")
}

func TestUsersAndSessions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	u, err := db.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = db.Create(ctx, "alice", "again")
	assert.Error(t, err, "usernames are unique")

	byName, err := db.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	none, err := db.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, none)

	sessions := NewSessionRepo(db)
	require.NoError(t, sessions.Create(ctx, u.ID, "live", "agent", "10.0.0.2", time.Now().Add(time.Hour)))
	require.NoError(t, sessions.Create(ctx, u.ID, "stale", "agent", "", time.Now().Add(-time.Hour)))

	s, err := sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "agent", s.UserAgent)
	assert.Equal(t, "10.0.0.2", s.IP)

	require.NoError(t, sessions.DeleteExpired(ctx))
	s, err = sessions.GetByToken(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, sessions.Delete(ctx, "live"))
	s, err = sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func ids(entries []domain.JournalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
