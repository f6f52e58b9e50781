package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mindspace/internal/domain"
)

const entryColumns = "id, user_id, entry_date, mood, energy, scale, content, tags, gratitudes, worries, sleep_hours, sleep_quality, negative_thought, reframed_thought, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

// AddEntry inserts a journal entry.
func (d *DB) AddEntry(ctx context.Context, e domain.JournalEntry) (*domain.JournalEntry, error) {
	tags, err := encodeList(e.Tags)
	if err != nil {
		return nil, err
	}
	gratitudes, err := encodeList(e.Gratitudes)
	if err != nil {
		return nil, err
	}

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

	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO journal_entries("+entryColumns+") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.UserID, formatTime(e.Date), e.Pulse.Mood, e.Pulse.Energy, int(scale), e.Content,
		tags, gratitudes, e.Worries, hours, quality, neg, ref, formatTime(e.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return d.GetEntry(ctx, e.UserID, e.ID)
}

// GetEntry returns one entry, or nil if it does not exist.
func (d *DB) GetEntry(ctx context.Context, userID int64, id string) (*domain.JournalEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? AND id = ?", userID, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// DeleteEntry removes an entry.
func (d *DB) DeleteEntry(ctx context.Context, userID int64, id string) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM journal_entries WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListRecentEntries returns the newest entries up to limit.
func (d *DB) ListRecentEntries(ctx context.Context, userID int64, limit int) ([]domain.JournalEntry, error) {
	return d.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? ORDER BY entry_date DESC, created_at DESC LIMIT ?",
		userID, limit)
}

// LatestWrittenEntry returns the most recently written entry, or nil.
func (d *DB) LatestWrittenEntry(ctx context.Context, userID int64) (*domain.JournalEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1", userID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// ListEntriesBetween returns entries with from <= date < to, oldest first.
func (d *DB) ListEntriesBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.JournalEntry, error) {
	return d.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? AND entry_date >= ? AND entry_date < ? ORDER BY entry_date, created_at",
		userID, formatTime(from), formatTime(to))
}

// ListAllEntries returns every entry of the user, oldest first.
func (d *DB) ListAllEntries(ctx context.Context, userID int64) ([]domain.JournalEntry, error) {
	return d.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? ORDER BY entry_date, created_at",
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
		e                domain.JournalEntry
		date, created    string
		scale            int
		tags, gratitudes string
		hours            sql.NullFloat64
		quality          sql.NullInt64
		neg, ref         sql.NullString
	)
	err := row.Scan(&e.ID, &e.UserID, &date, &e.Pulse.Mood, &e.Pulse.Energy, &scale,
		&e.Content, &tags, &gratitudes, &e.Worries, &hours, &quality, &neg, &ref, &created)
	if err != nil {
		return nil, err
	}
	if e.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if e.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}
	if e.Gratitudes, err = decodeList(gratitudes); err != nil {
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
	return &e, nil
}

func encodeList(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}
