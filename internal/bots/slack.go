package bots

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

// slackReplyTimeout bounds one turn plus the chat.postMessage call.
const slackReplyTimeout = 30 * time.Second

// SlackPoster posts messages through the Slack Web API. *slack.Client
// satisfies it.
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackHandler handles incoming Slack Events API requests. Slack ignores the
// response body of an event delivery, so each message is acknowledged right
// away and the reply is posted with chat.postMessage once the turn is done.
type SlackHandler struct {
	gateway       *Gateway
	signingSecret string
	poster        SlackPoster
	logger        *zap.Logger
	inflight      sync.WaitGroup
}

// NewSlackHandler creates a new Slack event handler. Requests are only
// signature-checked when signingSecret is set. A nil poster runs the turn
// but drops the reply.
func NewSlackHandler(gateway *Gateway, signingSecret string, poster SlackPoster) *SlackHandler {
	return &SlackHandler{
		gateway:       gateway,
		signingSecret: signingSecret,
		poster:        poster,
		logger:        gateway.logger.With(zap.String("platform", string(PlatformSlack))),
	}
}

// HandleEvent handles incoming Slack events (HTTP POST).
func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.signingSecret != "" {
		if err := verifySlackRequest(r.Header, body, h.signingSecret); err != nil {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	// A redelivery means Slack missed an earlier ack; that delivery already
	// ran the turn.
	if n := r.Header.Get("X-Slack-Retry-Num"); n != "" {
		h.logger.Debug("slack retry dropped",
			zap.String("retry_num", n),
			zap.String("retry_reason", r.Header.Get("X-Slack-Retry-Reason")),
		)
		w.WriteHeader(http.StatusOK)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		challenge, ok := event.Data.(*slackevents.EventsAPIURLVerificationEvent)
		if !ok {
			http.Error(w, "invalid event", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"challenge": challenge.Challenge})

	case slackevents.CallbackEvent:
		ev, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
		// Bot messages include our own replies.
		if !ok || ev.BotID != "" || ev.SubType == "bot_message" {
			w.WriteHeader(http.StatusOK)
			return
		}

		msg := IncomingMessage{
			Platform:  PlatformSlack,
			ChannelID: ev.Channel,
			UserID:    ev.User,
			Text:      ev.Text,
			ThreadID:  ev.ThreadTimeStamp,
			Timestamp: ev.TimeStamp,
		}

		ctx := context.WithoutCancel(r.Context())
		h.inflight.Add(1)
		go func() {
			defer h.inflight.Done()
			h.reply(ctx, msg)
		}()
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// Wait blocks until every acknowledged message has been answered.
func (h *SlackHandler) Wait() {
	h.inflight.Wait()
}

func (h *SlackHandler) reply(ctx context.Context, msg IncomingMessage) {
	ctx, cancel := context.WithTimeout(ctx, slackReplyTimeout)
	defer cancel()

	resp, err := h.gateway.Process(ctx, msg)
	if err != nil {
		return
	}
	if h.poster == nil {
		h.logger.Warn("slack reply dropped: no bot token configured", zap.String("channel", msg.ChannelID))
		return
	}

	out := formatSlackMessage(resp)
	opts := []slack.MsgOption{slack.MsgOptionText(out.Text, false)}
	if out.ThreadTS != "" {
		opts = append(opts, slack.MsgOptionTS(out.ThreadTS))
	}
	if _, _, err := h.poster.PostMessageContext(ctx, out.Channel, opts...); err != nil {
		h.logger.Error("slack reply failed", zap.String("channel", out.Channel), zap.Error(err))
	}
}

func verifySlackRequest(header http.Header, body []byte, secret string) error {
	sv, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}

// slackResponse is a reply ready for chat.postMessage.
type slackResponse struct {
	Channel  string
	Text     string
	ThreadTS string
}

// formatSlackMessage converts markdown list items to Slack bullets.
func formatSlackMessage(msg *OutgoingMessage) *slackResponse {
	resp := &slackResponse{
		Channel:  msg.ChannelID,
		Text:     msg.Text,
		ThreadTS: msg.ThreadID,
	}

	if strings.Contains(resp.Text, "\n") {
		lines := strings.Split(resp.Text, "\n")
		for i, line := range lines {
			if strings.HasPrefix(line, "- ") {
				lines[i] = "• " + line[2:]
			}
		}
		resp.Text = strings.Join(lines, "\n")
	}

	return resp
}
