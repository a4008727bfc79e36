package service

import (
	"context"

	"docuchat-be/internal/dto"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/repository/contract"
)

type IEvaluationService interface {
	Record(ctx context.Context, req *dto.RecordEvaluationRequest) (*dto.RecordEvaluationResponse, error)
	Stats(ctx context.Context) (*dto.EvaluationStatsResponse, error)
}

type evaluationService struct {
	evaluationRepo contract.EvaluationRepository
	logger         logger.ILogger
}

func NewEvaluationService(evaluationRepo contract.EvaluationRepository, log logger.ILogger) IEvaluationService {
	return &evaluationService{
		evaluationRepo: evaluationRepo,
		logger:         log,
	}
}

func (e *evaluationService) Record(ctx context.Context, req *dto.RecordEvaluationRequest) (*dto.RecordEvaluationResponse, error) {
	record, err := e.evaluationRepo.Record(ctx, req.ChatId, req.Score, req.Comment)
	if err != nil {
		return nil, err
	}

	e.logger.Info("evaluation", "Feedback recorded", map[string]interface{}{
		"evaluation_id": record.Id.String(),
		"chat_id":       req.ChatId,
		"score":         req.Score,
	})

	return &dto.RecordEvaluationResponse{EvaluationId: record.Id.String()}, nil
}

func (e *evaluationService) Stats(ctx context.Context) (*dto.EvaluationStatsResponse, error) {
	stats, err := e.evaluationRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.EvaluationStatsResponse{EvaluationStats: stats}, nil
}
