// Package reports is the durable log of submitted issue reports.
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/city-intake/internal/db"
)

// Store appends reports to the reports table.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save appends r and returns its generated id. Any id already set on r is
// ignored.
func (s *Store) Save(ctx context.Context, r Report) (string, error) {
	r.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, session_id, department, location, issue_description, severity_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Department, r.Location, r.IssueDescription, r.SeverityLevel,
		time.Now().UTC().Format(time.DateTime),
	)
	if err != nil {
		return "", fmt.Errorf("inserting report: %w", err)
	}
	return r.ID, nil
}

// GetByID retrieves a single report.
func (s *Store) GetByID(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, department, location, issue_description, severity_level, created_at
		FROM reports WHERE id = ?`, id)

	r, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// List returns reports matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Report, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Department != "" {
		clauses = append(clauses, "department = ?")
		args = append(args, filter.Department)
	}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if !filter.Since.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := "SELECT id, session_id, department, location, issue_description, severity_level, created_at FROM reports"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var result []Report
	for rows.Next() {
		r, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Report, error) {
	var (
		r  Report
		ts string
	)
	err := sc.Scan(&r.ID, &r.SessionID, &r.Department, &r.Location,
		&r.IssueDescription, &r.SeverityLevel, &ts)
	if err != nil {
		return nil, err
	}

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		r.CreatedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339Nano, ts); parseErr == nil {
		r.CreatedAt = t
	}
	return &r, nil
}
