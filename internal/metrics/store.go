package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new ExportLog backed by the export_log table.
func New(db *sql.DB) ExportLog {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// Record appends an entry. A zero CreatedAt is set to now.
func (s *store) Record(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO export_log (session_id, resource, format, filename, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.SessionID, entry.Resource, entry.Format, entry.Filename, entry.Rows, entry.CreatedAt.Unix())
	if err != nil {
		log.Error("Failed to record export", "error", err, "file", entry.Filename)
		return err
	}
	log.Debug("Recorded export", "file", entry.Filename, "rows", entry.Rows)
	return nil
}

// Recent returns the latest entries, newest first.
func (s *store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, resource, format, filename, row_count, created_at
		FROM export_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Resource, &e.Format, &e.Filename, &e.Rows, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Totals returns how many exports were produced per resource.
func (s *store) Totals(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT resource, COUNT(*) FROM export_log GROUP BY resource")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var resource string
		var count int
		if err := rows.Scan(&resource, &count); err != nil {
			return nil, err
		}
		totals[resource] = count
	}
	return totals, rows.Err()
}
