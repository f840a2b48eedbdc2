// Package intake runs the conversation that turns a citizen's messages into
// a complete issue report.
package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/classify"
	"github.com/ziadkadry99/city-intake/internal/department"
	"github.com/ziadkadry99/city-intake/internal/notify"
	"github.com/ziadkadry99/city-intake/internal/reports"
	"github.com/ziadkadry99/city-intake/internal/session"
)

const (
	welcomeReply    = "Hi! I'm here to help you report issues to your city departments. What problem would you like to report?"
	processingReply = "I'm processing your request. Please provide more details."
)

// ReportSink stores completed reports.
type ReportSink interface {
	Save(ctx context.Context, r reports.Report) (string, error)
}

// Config wires an Agent to its collaborators. Sessions and Classifier are
// required; a nil Reports or Relay skips that destination.
type Config struct {
	Sessions     session.Store
	Reports      ReportSink
	Relay        notify.Relay
	Classifier   *classify.Classifier
	Logger       *zap.Logger
	SinkTimeout  time.Duration
	RelayTimeout time.Duration
}

// Result is the outcome of one conversation turn.
type Result struct {
	Response   string                `json:"response"`
	SessionID  string                `json:"session_id"`
	Department department.Department `json:"department"`
	Status     session.Status        `json:"status"`
}

// Agent handles conversation turns. It is safe for concurrent use; turns of
// the same session are serialised.
type Agent struct {
	sessions   session.Store
	classifier *classify.Classifier
	logger     *zap.Logger
	locks      *KeyedMutex
	dispatch   *dispatcher
	metrics    *metrics
}

// New creates an Agent.
func New(cfg Config) (*Agent, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("intake: session store is required")
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("intake: classifier is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "intake"))

	m, err := newMetrics()
	if err != nil {
		return nil, fmt.Errorf("creating intake metrics: %w", err)
	}

	return &Agent{
		sessions:   cfg.Sessions,
		classifier: cfg.Classifier,
		logger:     logger,
		locks:      NewKeyedMutex(),
		dispatch:   newDispatcher(cfg.Reports, cfg.Relay, cfg.SinkTimeout, cfg.RelayTimeout, logger, m),
		metrics:    m,
	}, nil
}

// HandleMessage advances the conversation of sessionID by one turn. An empty
// sessionID starts a new conversation under a generated id.
func (a *Agent) HandleMessage(ctx context.Context, sessionID, message string) (*Result, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if err := a.locks.Lock(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("waiting for session %s: %w", sessionID, err)
	}
	defer a.locks.Unlock(sessionID)

	st := a.route(ctx, sessionID, message)
	if !(st.Status == session.StatusGreeting && st.Department == department.None) {
		if report := a.fill(ctx, &st); report != nil {
			a.dispatch.submit(ctx, *report)
		}
	}

	a.metrics.turn(ctx, st.Status)

	reply := st.AIResponse
	if reply == "" {
		reply = processingReply
	}
	return &Result{
		Response:   reply,
		SessionID:  st.SessionID,
		Department: st.Department,
		Status:     st.Status,
	}, nil
}

// Classify returns the department for message without touching any session.
func (a *Agent) Classify(ctx context.Context, message string) department.Department {
	return a.classifier.Classify(ctx, message)
}

// Wait blocks until every report handed off so far has been stored and
// relayed. Call it once no turns are in flight, e.g. at shutdown.
func (a *Agent) Wait() {
	a.dispatch.wait()
}

// route loads the prior state and settles the department for this turn.
func (a *Agent) route(ctx context.Context, sessionID, message string) session.State {
	fresh := session.New(sessionID, message)

	prior, err := a.sessions.Load(ctx, sessionID)
	if err != nil {
		a.logger.Error("loading session failed, starting fresh",
			zap.String("session_id", sessionID), zap.Error(err))
		prior = nil
	}

	switch {
	case prior == nil && classify.IsGreeting(message):
		st := fresh
		st.Status = session.StatusGreeting
		st.AIResponse = welcomeReply
		a.save(ctx, st)
		return st

	case prior != nil:
		st := session.Merge(fresh, *prior)
		if prior.Status == session.StatusGreeting || !st.Department.Valid() {
			st.Department = a.classifier.Classify(ctx, message)
		}
		return st

	default:
		st := fresh
		st.Department = a.classifier.Classify(ctx, message)
		return st
	}
}

// save persists st. A failure is logged and the turn goes on in memory.
func (a *Agent) save(ctx context.Context, st session.State) {
	if err := a.sessions.Save(ctx, st); err != nil {
		a.logger.Error("saving session failed",
			zap.String("session_id", st.SessionID), zap.Error(err))
	}
}
