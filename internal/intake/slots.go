package intake

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/city-intake/internal/extract"
	"github.com/ziadkadry99/city-intake/internal/reports"
	"github.com/ziadkadry99/city-intake/internal/session"
)

const (
	describeReply        = "What problem would you like to report? Please describe the issue."
	severityPrompt       = "On a scale of 1-10, how severe is this issue? (1 = minor, 10 = critical)"
	severityReprompt     = "Please provide a severity rating from 1-10. (1 = minor, 10 = critical)"
	locationPrompt       = "Thank you. Could you please provide the location (address, coordinates, or landmark) where this is occurring?"
	locationReprompt     = "Could you please provide the location (address, street name, landmark, or coordinates)?"
	confirmationTemplate = "Thank you! I've collected all the information about your %s report. Your report has been submitted to the appropriate department."
	fallbackTemplate     = "I can help you report a %s issue. Could you please describe what the problem is?"
)

// step advances st by one slot for the given message. It returns a report
// when the last slot was filled.
type step func(st *session.State, message string) *reports.Report

// transitions maps each status to the slot it collects. Statuses missing
// from the table get the fallback.
var transitions = map[session.Status]step{
	"":                             collectIssue,
	session.StatusGreeting:         collectIssue,
	session.StatusInProgress:       collectIssue,
	session.StatusAwaitingIssue:    collectIssue,
	session.StatusAwaitingSeverity: collectSeverity,
	session.StatusAwaitingLocation: collectLocation,
}

// fill runs one slot-filling step and persists the result.
func (a *Agent) fill(ctx context.Context, st *session.State) *reports.Report {
	defer func() { a.save(ctx, *st) }()

	if st.Status == session.StatusComplete {
		st.Reset()
	}

	message := strings.TrimSpace(st.LastMessage)
	if message == "" {
		st.AIResponse = describeReply
		st.Status = session.StatusAwaitingIssue
		return nil
	}

	next, ok := transitions[st.Status]
	if !ok {
		next = fallback
	}
	return next(st, message)
}

func collectIssue(st *session.State, message string) *reports.Report {
	st.IssueDescription = message
	st.AIResponse = severityPrompt
	st.Status = session.StatusAwaitingSeverity
	return nil
}

func collectSeverity(st *session.State, message string) *reports.Report {
	n, ok := extract.Severity(message)
	if !ok || !extract.ValidSeverity(n) {
		st.AIResponse = severityReprompt
		return nil
	}
	st.SeverityLevel = n
	st.AIResponse = locationPrompt
	st.Status = session.StatusAwaitingLocation
	return nil
}

func collectLocation(st *session.State, message string) *reports.Report {
	loc, ok := extract.Location(message)
	loc = strings.TrimSpace(loc)
	if !ok || utf8.RuneCountInString(loc) < 3 {
		st.AIResponse = locationReprompt
		return nil
	}
	st.Location = loc
	st.Status = session.StatusComplete
	st.AIResponse = fmt.Sprintf(confirmationTemplate, st.Department.Noun())

	return &reports.Report{
		SessionID:        st.SessionID,
		Department:       st.Department.ReportName(),
		Location:         st.Location,
		IssueDescription: st.IssueDescription,
		SeverityLevel:    st.SeverityLevel,
	}
}

func fallback(st *session.State, _ string) *reports.Report {
	st.AIResponse = fmt.Sprintf(fallbackTemplate, st.Department.Noun())
	st.Status = session.StatusAwaitingIssue
	return nil
}
