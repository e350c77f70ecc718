package models

import "time"

// Webhook is a registered outbound Discord endpoint. LastUsed is bumped after
// each successful delivery and stays nil until the first one.
type Webhook struct {
	ID        int        `json:"id"`
	URL       string     `json:"url"`
	Name      string     `json:"name"`
	Created   time.Time  `json:"created"`
	CreatedBy string     `json:"createdBy"`
	LastUsed  *time.Time `json:"lastUsed"`
}

// BlockedToken marks a revoked JWT by its jti. Entries are never pruned, so
// the collection only grows; verification just checks membership.
type BlockedToken struct {
	JTI       string    `json:"jti"`
	BlockedAt time.Time `json:"blockedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
