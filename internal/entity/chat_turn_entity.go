package entity

import (
	"time"

	"github.com/google/uuid"
)

// TurnMetrics is attached to a turn after it completes.
type TurnMetrics struct {
	LatencySeconds    float64 `json:"latency_seconds"`
	RetrievedPassages int     `json:"retrieved_passages"`
	CacheHit          bool    `json:"cache_hit"`
	Rewritten         bool    `json:"rewritten"`
	TurnNumber        int64   `json:"turn_number"`
}

// ChatTurn is one question/answer exchange. Immutable once appended except
// for the later metrics attachment.
type ChatTurn struct {
	Id        uuid.UUID    `json:"id"`
	Question  string       `json:"question"`
	Answer    string       `json:"answer"`
	CreatedAt time.Time    `json:"created_at"`
	Metrics   *TurnMetrics `json:"metrics,omitempty"`
}
