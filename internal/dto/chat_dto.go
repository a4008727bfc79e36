package dto

import (
	"docuchat-be/internal/entity"
)

type ChatRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionId string `json:"session_id"`
}

type ChatResponse struct {
	Answer    string  `json:"answer"`
	SessionId string  `json:"session_id"`
	ChatId    string  `json:"chat_id"`
	Latency   float64 `json:"latency"`
}

type BatchQueryRequest struct {
	Queries   []string `json:"queries" validate:"required,min=1,dive,required"`
	SessionId string   `json:"session_id"`
}

type BatchQueryResponse struct {
	Answers   []string `json:"answers"`
	SessionId string   `json:"session_id"`
	BatchSize int      `json:"batch_size"`
	Latency   float64  `json:"latency"`
}

type HistoryResponse struct {
	History []*entity.ChatTurn `json:"history"`
	Latency float64            `json:"latency"`
}

type SummaryResponse struct {
	Summary string  `json:"summary"`
	Latency float64 `json:"latency"`
}
