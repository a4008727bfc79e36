package contract

import (
	"context"

	"docuchat-be/internal/entity"

	"github.com/google/uuid"
)

// HistoryRepository owns "chat:<sid>:history", "chat:<sid>:count" and
// "summary:<sid>".
type HistoryRepository interface {
	// Append pushes a new turn onto the session log and refreshes the
	// history TTL. Returns the created turn.
	Append(ctx context.Context, sessionId, question, answer string) (*entity.ChatTurn, error)

	// AttachMetrics scans the log for chatId and rewrites that entry in
	// place. A missing id is a no-op, never an error: metrics are best
	// effort and must not fail the caller.
	AttachMetrics(ctx context.Context, sessionId string, chatId uuid.UUID, metrics *entity.TurnMetrics) error

	// ReadAll materializes the full history oldest-first.
	ReadAll(ctx context.Context, sessionId string) ([]*entity.ChatTurn, error)

	// Clear drops the entire history log.
	Clear(ctx context.Context, sessionId string) error

	// IncrTurnCount bumps the session's monotonic turn counter.
	IncrTurnCount(ctx context.Context, sessionId string) (int64, error)

	GetSummary(ctx context.Context, sessionId string) (string, error)
	SetSummary(ctx context.Context, sessionId, summary string) error
	DeleteSummary(ctx context.Context, sessionId string) error

	// Touch renews the history TTL without appending.
	Touch(ctx context.Context, sessionId string) error
}
