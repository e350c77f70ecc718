package webhook

import "regexp"

// DiscordWebhookPattern matches Discord webhook endpoints, the only delivery
// target the fan-out supports.
var DiscordWebhookPattern = regexp.MustCompile(`^https://(discord|discordapp)\.com/api/webhooks/\d+/[\w-]+$`)

// CreateDTO is the request body for registering a webhook.
type CreateDTO struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// discordPayload is the body POSTed to a Discord webhook.
type discordPayload struct {
	Content string `json:"content"`
}
