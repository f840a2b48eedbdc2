package bots

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the Slack and Teams webhook endpoints. Both feed the
// same gateway.
func RegisterRoutes(r chi.Router, gateway *Gateway, slack *SlackHandler) {
	r.Route("/api/bots", func(r chi.Router) {
		r.Post("/slack/events", slack.HandleEvent)
		r.Post("/teams/activity", NewTeamsHandler(gateway).HandleActivity)
	})
}
