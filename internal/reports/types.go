package reports

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a report id is unknown.
var ErrNotFound = errors.New("report not found")

// Report is a completed issue report. It is written once and never updated.
type Report struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	Department       string    `json:"department"`
	Location         string    `json:"location"`
	IssueDescription string    `json:"issue_description"`
	SeverityLevel    int       `json:"severity_level"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListFilter controls which reports are returned by List.
type ListFilter struct {
	Department string
	SessionID  string
	Since      time.Time
	Limit      int
	Offset     int
}
