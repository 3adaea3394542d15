package service

import (
	"context"
	"time"

	"holidaze/internal/domain"
	"holidaze/internal/models"

	"github.com/rs/zerolog"
)

// StateService manages bot conversation state on top of the store.
type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *StateService) GetChatState(ctx context.Context, chatID int64) (*models.ChatState, error) {
	state, err := s.stateRepo.GetState(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to get chat state")
		return nil, err
	}
	return state, nil
}

func (s *StateService) SetChatState(ctx context.Context, chatID int64, step string, data map[string]interface{}) error {
	state := &models.ChatState{
		ChatID: chatID,
		Step:   step,
		Data:   data,
	}
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) UpdateChatStateData(ctx context.Context, chatID int64, key string, value interface{}) error {
	state, err := s.stateRepo.GetState(ctx, chatID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &models.ChatState{ChatID: chatID, Data: make(map[string]interface{})}
	}
	state.Set(key, value)
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) ClearChatState(ctx context.Context, chatID int64) error {
	return s.stateRepo.ClearState(ctx, chatID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, chatID, limit, window)
}
