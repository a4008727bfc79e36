package entity

import "time"

// CacheEntry is a content-addressed answer cache record. The key is a pure
// function of (prompt, context), so identical inputs always collide.
type CacheEntry struct {
	Key       string    `json:"-"`
	Prompt    string    `json:"prompt"`
	Context   string    `json:"context"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
