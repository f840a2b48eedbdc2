package bots

// Platform identifies the messaging platform.
type Platform string

const (
	PlatformSlack Platform = "slack"
	PlatformTeams Platform = "teams"
)

// IncomingMessage represents a message received from any platform.
type IncomingMessage struct {
	Platform  Platform
	ChannelID string
	UserID    string
	UserName  string
	Text      string
	ThreadID  string // for threaded replies
	Timestamp string
}

// OutgoingMessage represents a response to send back.
type OutgoingMessage struct {
	ChannelID string
	Text      string
	ThreadID  string
}

// SessionID is the intake session a platform channel maps to. Every message
// in one channel continues the same report conversation.
func (m IncomingMessage) SessionID() string {
	return "bot-" + string(m.Platform) + "-" + m.ChannelID
}
