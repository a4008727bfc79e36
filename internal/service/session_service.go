package service

import (
	"context"

	"docuchat-be/internal/dto"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/repository/contract"
	"docuchat-be/pkg/events"
	pktNats "docuchat-be/pkg/nats"
)

type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	Validate(ctx context.Context, sessionId string) error
	Delete(ctx context.Context, sessionId string) error
}

type sessionService struct {
	sessionRepo    contract.SessionRepository
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewSessionService(sessionRepo contract.SessionRepository, eventPublisher *pktNats.Publisher, log logger.ILogger) ISessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *sessionService) Create(ctx context.Context) (*dto.CreateSessionResponse, error) {
	sessionId, err := s.sessionRepo.Create(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session", "Session created", map[string]interface{}{
		"session_id": sessionId,
	})

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSessionCreatedEvent(sessionId)); err != nil {
			s.logger.Warn("session", "Failed to publish session created event", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
		}
	}

	return &dto.CreateSessionResponse{SessionId: sessionId}, nil
}

// Validate returns an InvalidSession error for a missing or expired session.
func (s *sessionService) Validate(ctx context.Context, sessionId string) error {
	if sessionId == "" {
		return serverutils.NewInvalidSessionError()
	}
	valid, err := s.sessionRepo.IsValid(ctx, sessionId)
	if err != nil {
		return err
	}
	if !valid {
		return serverutils.NewInvalidSessionError()
	}
	return nil
}

func (s *sessionService) Delete(ctx context.Context, sessionId string) error {
	return s.sessionRepo.Delete(ctx, sessionId)
}
