package bots

import (
	"encoding/json"
	"net/http"
)

// TeamsHandler handles incoming Microsoft Teams bot activities.
type TeamsHandler struct {
	gateway *Gateway
}

// NewTeamsHandler creates a new Teams activity handler.
func NewTeamsHandler(gateway *Gateway) *TeamsHandler {
	return &TeamsHandler{gateway: gateway}
}

// teamsActivity is the subset of a Bot Framework activity the intake bot reads.
type teamsActivity struct {
	Type         string            `json:"type"`
	ID           string            `json:"id"`
	Timestamp    string            `json:"timestamp"`
	Text         string            `json:"text"`
	From         teamsAccount      `json:"from"`
	Recipient    teamsAccount      `json:"recipient"`
	Conversation teamsConversation `json:"conversation"`
	ReplyToID    string            `json:"replyToId"`
}

type teamsAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type teamsConversation struct {
	ID string `json:"id"`
}

type teamsReply struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	ReplyToID string `json:"replyToId,omitempty"`
}

// HandleActivity handles incoming Teams bot activities (HTTP POST).
func (h *TeamsHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var activity teamsActivity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// Ignore conversation updates and echoes of the bot's own messages.
	if activity.Type != "message" || (activity.Recipient.ID != "" && activity.From.ID == activity.Recipient.ID) {
		w.WriteHeader(http.StatusOK)
		return
	}

	msg := IncomingMessage{
		Platform:  PlatformTeams,
		ChannelID: activity.Conversation.ID,
		UserID:    activity.From.ID,
		UserName:  activity.From.Name,
		Text:      activity.Text,
		ThreadID:  activity.ReplyToID,
		Timestamp: activity.Timestamp,
	}

	resp, err := h.gateway.Process(r.Context(), msg)
	if err != nil {
		http.Error(w, "processing error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(teamsReply{
		Type:      "message",
		Text:      resp.Text,
		ReplyToID: activity.ID,
	})
}
