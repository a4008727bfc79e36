package entity

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationRecord struct {
	Id        uuid.UUID `json:"id"`
	ChatId    string    `json:"chat_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type EvaluationStats struct {
	Count        int     `json:"num_eval"`
	AverageScore float64 `json:"avg_score"`
}
