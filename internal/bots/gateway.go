package bots

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MessageHandler turns an incoming platform message into a reply.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error)
}

// Gateway is the entry point shared by the Slack and Teams handlers. It logs
// every exchange with its platform and channel.
type Gateway struct {
	handler MessageHandler
	logger  *zap.Logger
}

// NewGateway creates a Gateway. A nil logger discards the exchange log.
func NewGateway(handler MessageHandler, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{handler: handler, logger: logger.With(zap.String("component", "bots"))}
}

// Process routes an incoming message through the handler.
func (g *Gateway) Process(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	start := time.Now()
	resp, err := g.handler.HandleMessage(ctx, msg)
	fields := []zap.Field{
		zap.String("platform", string(msg.Platform)),
		zap.String("channel", msg.ChannelID),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		g.logger.Error("bot message failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	g.logger.Debug("bot message handled", fields...)
	return resp, nil
}
