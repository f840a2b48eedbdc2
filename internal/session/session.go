// Package session holds the per-conversation state of the intake agent and
// the stores that persist it between turns.
package session

import (
	"context"
	"time"

	"github.com/ziadkadry99/city-intake/internal/department"
)

// Status is the conversation phase. It decides which question is asked next.
type Status string

const (
	StatusGreeting         Status = "greeting"
	StatusInProgress       Status = "in_progress"
	StatusAwaitingIssue    Status = "awaiting_issue"
	StatusAwaitingSeverity Status = "awaiting_severity"
	StatusAwaitingLocation Status = "awaiting_location"
	StatusComplete         Status = "complete"
)

// State is one conversation's progress through a report.
type State struct {
	SessionID        string                `json:"session_id"`
	Department       department.Department `json:"department"`
	IssueDescription string                `json:"issue_description"`
	SeverityLevel    int                   `json:"severity_level"`
	Location         string                `json:"location"`
	Status           Status                `json:"status"`
	LastMessage      string                `json:"last_message"`
	AIResponse       string                `json:"ai_response"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// New returns the state of a conversation that has never been seen before.
func New(sessionID, message string) State {
	return State{
		SessionID:   sessionID,
		Status:      StatusInProgress,
		LastMessage: message,
	}
}

// Merge overlays the persisted record onto fresh, then restores the session
// id and message of the current turn.
func Merge(fresh State, persisted State) State {
	merged := persisted
	merged.SessionID = fresh.SessionID
	merged.LastMessage = fresh.LastMessage
	merged.AIResponse = ""
	return merged
}

// Reset clears the collected fields so a new report can start. The
// department is kept.
func (s *State) Reset() {
	s.IssueDescription = ""
	s.SeverityLevel = 0
	s.Location = ""
	s.Status = StatusInProgress
}

// Store persists conversation state keyed by session id.
type Store interface {
	// Save upserts the state. It is a no-op when SessionID is empty.
	Save(ctx context.Context, s State) error
	// Load returns the stored state, or nil when the session is unknown.
	Load(ctx context.Context, sessionID string) (*State, error)
}
