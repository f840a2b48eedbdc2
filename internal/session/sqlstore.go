package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/city-intake/internal/db"
	"github.com/ziadkadry99/city-intake/internal/department"
)

// SQLStore keeps conversations in the SQLite conversations table.
type SQLStore struct {
	db *db.DB
}

// NewSQLStore creates a SQLStore backed by the given database.
func NewSQLStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database}
}

func (s *SQLStore) Save(ctx context.Context, st State) error {
	if st.SessionID == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, department, issue_description, severity_level,
			location, status, last_message, ai_response, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			department = excluded.department,
			issue_description = excluded.issue_description,
			severity_level = excluded.severity_level,
			location = excluded.location,
			status = excluded.status,
			last_message = excluded.last_message,
			ai_response = excluded.ai_response,
			updated_at = excluded.updated_at`,
		st.SessionID, string(st.Department), st.IssueDescription, st.SeverityLevel,
		st.Location, string(st.Status), st.LastMessage, st.AIResponse,
		time.Now().UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("upserting conversation: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, sessionID string) (*State, error) {
	var (
		st           State
		dept, status string
		ts           string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, department, issue_description, severity_level,
			location, status, last_message, ai_response, updated_at
		FROM conversations WHERE session_id = ?`, sessionID,
	).Scan(&st.SessionID, &dept, &st.IssueDescription, &st.SeverityLevel,
		&st.Location, &status, &st.LastMessage, &st.AIResponse, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	st.Department = department.Department(dept)
	st.Status = Status(status)
	st.UpdatedAt = parseTimestamp(ts)
	return &st, nil
}

// parseTimestamp accepts both the layout SQLite writes and the RFC 3339 form
// the driver returns for DATETIME columns.
func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t
	}
	return time.Time{}
}
