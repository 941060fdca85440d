package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"daytiles/internal/timeutil"
	"daytiles/schedule"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrEntryNotFound = errors.New("entry not found")

// DayEntry is an entry together with the day it belongs to.
type DayEntry struct {
	Day        time.Time
	Entry      schedule.Entry
	SourceFile string
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	day TEXT NOT NULL,
	entry_id TEXT NOT NULL,
	start TEXT NOT NULL,
	duration INTEGER NOT NULL CHECK(duration > 0),
	source_file TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(day, entry_id)
);
CREATE INDEX IF NOT EXISTS idx_entries_day ON entries(day);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertEntries stores all entries in one transaction. Entries whose id
// already exists on the same day are ignored; the count of new rows is returned.
func (s *SQLiteStore) InsertEntries(entries []DayEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	for _, item := range entries {
		if err := item.Entry.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO entries (
	day,
	entry_id,
	start,
	duration,
	source_file
) VALUES (?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, item := range entries {
		res, err := stmt.Exec(
			timeutil.FormatDay(item.Day),
			item.Entry.ID,
			item.Entry.Start,
			item.Entry.Duration,
			item.SourceFile,
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert entry %q: %w", item.Entry.ID, err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

// InsertEntry inserts one entry. It returns false when an entry with the same
// id already exists on that day.
func (s *SQLiteStore) InsertEntry(day time.Time, entry schedule.Entry) (bool, error) {
	if err := entry.Validate(); err != nil {
		return false, err
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO entries (day, entry_id, start, duration) VALUES (?, ?, ?, ?);`,
		timeutil.FormatDay(day),
		entry.ID,
		entry.Start,
		entry.Duration,
	)
	if err != nil {
		return false, fmt.Errorf("insert entry %q: %w", entry.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read inserted row count: %w", err)
	}
	return rows > 0, nil
}

// ListDay returns the entries of one day ordered by start, ties in insertion order.
func (s *SQLiteStore) ListDay(day time.Time) ([]schedule.Entry, error) {
	const query = `
SELECT
	entry_id,
	start,
	duration
FROM entries
WHERE day = ?
ORDER BY start, id;
`

	rows, err := s.db.Query(query, timeutil.FormatDay(day))
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]schedule.Entry, 0, 32)
	for rows.Next() {
		var entry schedule.Entry
		if err := rows.Scan(&entry.ID, &entry.Start, &entry.Duration); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// ListDays returns every day that has at least one entry, oldest first.
func (s *SQLiteStore) ListDays() ([]time.Time, error) {
	rows, err := s.db.Query(`SELECT DISTINCT day FROM entries ORDER BY day;`)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	days := make([]time.Time, 0, 32)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		day, err := timeutil.ParseDay(raw)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}

	return days, nil
}

// GetEntry returns one entry by day and id.
func (s *SQLiteStore) GetEntry(day time.Time, id string) (schedule.Entry, bool, error) {
	if strings.TrimSpace(id) == "" {
		return schedule.Entry{}, false, fmt.Errorf("entry id is required")
	}

	var entry schedule.Entry
	err := s.db.QueryRow(
		`SELECT entry_id, start, duration FROM entries WHERE day = ? AND entry_id = ?;`,
		timeutil.FormatDay(day),
		id,
	).Scan(&entry.ID, &entry.Start, &entry.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Entry{}, false, nil
		}
		return schedule.Entry{}, false, fmt.Errorf("query entry %q: %w", id, err)
	}

	return entry, true, nil
}

// UpdateEntry replaces start and duration of the entry with the same day and id.
func (s *SQLiteStore) UpdateEntry(day time.Time, entry schedule.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	res, err := s.db.Exec(
		`UPDATE entries SET start = ?, duration = ? WHERE day = ? AND entry_id = ?;`,
		entry.Start,
		entry.Duration,
		timeutil.FormatDay(day),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry %q: %w", entry.ID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// DeleteEntry removes one entry.
func (s *SQLiteStore) DeleteEntry(day time.Time, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("entry id is required")
	}

	res, err := s.db.Exec(`DELETE FROM entries WHERE day = ? AND entry_id = ?;`, timeutil.FormatDay(day), id)
	if err != nil {
		return false, fmt.Errorf("delete entry %q: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteDay removes all entries of one day.
func (s *SQLiteStore) DeleteDay(day time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM entries WHERE day = ?;`, timeutil.FormatDay(day))
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

// UpdateEntryStarts moves entries of one day to new start times in one
// transaction and returns the number of rows changed.
func (s *SQLiteStore) UpdateEntryStarts(day time.Time, entries []schedule.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`UPDATE entries SET start = ? WHERE day = ? AND entry_id = ?;`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare update statement: %w", err)
	}
	defer stmt.Close()

	key := timeutil.FormatDay(day)
	updated := 0
	for _, entry := range entries {
		if _, err := schedule.ParseTime(entry.Start); err != nil {
			_ = tx.Rollback()
			return updated, fmt.Errorf("entry %q: %w", entry.ID, err)
		}
		res, err := stmt.Exec(entry.Start, key, entry.ID)
		if err != nil {
			_ = tx.Rollback()
			return updated, fmt.Errorf("update entry %q: %w", entry.ID, err)
		}

		rowsAffected, err := res.RowsAffected()
		if err == nil && rowsAffected > 0 {
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return updated, fmt.Errorf("commit update transaction: %w", err)
	}

	return updated, nil
}
