package bots

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/intake"
)

const (
	emptyMessageReply = "I received an empty message. Please describe the issue you want to report."
	failureReply      = "Sorry, I could not process your message. Please try again in a moment."
)

// Conversation is the part of the intake agent the bots talk to.
type Conversation interface {
	HandleMessage(ctx context.Context, sessionID, message string) (*intake.Result, error)
}

// Processor connects incoming bot messages to the intake agent.
type Processor struct {
	agent  Conversation
	logger *zap.Logger
}

// NewProcessor creates a new message processor.
func NewProcessor(agent Conversation, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{agent: agent, logger: logger}
}

// HandleMessage runs one turn of the channel's intake conversation. Agent
// failures are logged and answered with an apology instead of an error so
// the platform does not retry the delivery.
func (p *Processor) HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	out := &OutgoingMessage{ChannelID: msg.ChannelID, ThreadID: msg.ThreadID}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		out.Text = emptyMessageReply
		return out, nil
	}

	res, err := p.agent.HandleMessage(ctx, msg.SessionID(), text)
	if err != nil {
		p.logger.Error("agent turn failed",
			zap.String("platform", string(msg.Platform)),
			zap.String("channel", msg.ChannelID),
			zap.Error(err),
		)
		out.Text = failureReply
		return out, nil
	}
	out.Text = res.Response
	return out, nil
}
