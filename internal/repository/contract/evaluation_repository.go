package contract

import (
	"context"

	"docuchat-be/internal/entity"
)

// EvaluationRepository owns "eval:<id>" hashes and the global "evaluations"
// index. Append-only.
type EvaluationRepository interface {
	Record(ctx context.Context, chatId string, score int, comment string) (*entity.EvaluationRecord, error)

	// Stats scans the global index. Records without a parseable score count
	// in neither the numerator nor the denominator; an empty index yields
	// {0, 0}.
	Stats(ctx context.Context) (*entity.EvaluationStats, error)
}
