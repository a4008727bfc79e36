package dto

import "docuchat-be/internal/entity"

type RecordEvaluationRequest struct {
	ChatId  string `json:"chat_id" validate:"required"`
	Score   int    `json:"score" validate:"required"`
	Comment string `json:"comment"`
}

type RecordEvaluationResponse struct {
	EvaluationId string `json:"evaluation_id"`
}

type EvaluationStatsResponse struct {
	*entity.EvaluationStats
}
