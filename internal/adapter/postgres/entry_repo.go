package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mindspace/internal/domain"

	"github.com/lib/pq"
)

const entryColumns = "id, user_id, entry_date, mood, energy, scale, content, tags, gratitudes, worries, sleep_hours, sleep_quality, negative_thought, reframed_thought, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

// AddEntry inserts a journal entry.
func (d *DB) AddEntry(ctx context.Context, e domain.JournalEntry) (*domain.JournalEntry, error) {
	var neg, ref sql.NullString
	if e.Reframe != nil {
		neg = sql.NullString{String: e.Reframe.NegativeThought, Valid: true}
		ref = sql.NullString{String: e.Reframe.ReframedThought, Valid: true}
	}
	var hours sql.NullFloat64
	if e.SleepHours != nil {
		hours = sql.NullFloat64{Float64: *e.SleepHours, Valid: true}
	}
	var quality sql.NullInt64
	if e.SleepQuality != nil {
		quality = sql.NullInt64{Int64: int64(*e.SleepQuality), Valid: true}
	}
	scale := e.Pulse.Scale
	if scale == 0 {
		scale = domain.ScaleTen
	}

	row := d.sql.QueryRowContext(ctx,
		"INSERT INTO journal_entries("+entryColumns+") VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING "+entryColumns+";",
		e.ID, e.UserID, e.Date.UTC(), e.Pulse.Mood, e.Pulse.Energy, int(scale), e.Content,
		pq.Array(nonNil(e.Tags)), pq.Array(nonNil(e.Gratitudes)), e.Worries,
		hours, quality, neg, ref, e.CreatedAt.UTC(),
	)
	return scanEntry(row)
}

// GetEntry returns one entry, or nil if it does not exist.
func (d *DB) GetEntry(ctx context.Context, userID int64, id string) (*domain.JournalEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id=$1 AND id=$2;", userID, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// DeleteEntry removes an entry.
func (d *DB) DeleteEntry(ctx context.Context, userID int64, id string) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM journal_entries WHERE user_id=$1 AND id=$2;", userID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListRecentEntries returns the newest entries up to limit.
func (d *DB) ListRecentEntries(ctx context.Context, userID int64, limit int) ([]domain.JournalEntry, error) {
	return d.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id=$1 ORDER BY entry_date DESC, created_at DESC LIMIT $2;",
		userID, limit)
}

// LatestWrittenEntry returns the most recently written entry, or nil.
func (d *DB) LatestWrittenEntry(ctx context.Context, userID int64) (*domain.JournalEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1;", userID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// ListEntriesBetween returns entries with from <= date < to, oldest first.
func (d *DB) ListEntriesBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.JournalEntry, error) {
	return d.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id=$1 AND entry_date >= $2 AND entry_date < $3 ORDER BY entry_date, created_at;",
		userID, from.UTC(), to.UTC())
}

// ListAllEntries returns every entry of the user, oldest first.
func (d *DB) ListAllEntries(ctx context.Context, userID int64) ([]domain.JournalEntry, error) {
	return d.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id=$1 ORDER BY entry_date, created_at;",
		userID)
}

func (d *DB) queryEntries(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.JournalEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEntry(row rowScanner) (*domain.JournalEntry, error) {
	var (
		e        domain.JournalEntry
		scale    int
		hours    sql.NullFloat64
		quality  sql.NullInt64
		neg, ref sql.NullString
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Pulse.Mood, &e.Pulse.Energy, &scale,
		&e.Content, pq.Array(&e.Tags), pq.Array(&e.Gratitudes), &e.Worries,
		&hours, &quality, &neg, &ref, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Pulse.Scale = domain.Scale(scale)
	if hours.Valid {
		v := hours.Float64
		e.SleepHours = &v
	}
	if quality.Valid {
		v := int(quality.Int64)
		e.SleepQuality = &v
	}
	if neg.Valid || ref.Valid {
		e.Reframe = &domain.Reframe{NegativeThought: neg.String, ReframedThought: ref.String}
	}
	if len(e.Tags) == 0 {
		e.Tags = nil
	}
	if len(e.Gratitudes) == 0 {
		e.Gratitudes = nil
	}
	return &e, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
