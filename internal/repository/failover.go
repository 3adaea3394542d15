package repository

import (
	"context"
	"sync/atomic"
	"time"

	"holidaze/internal/models"

	"github.com/rs/zerolog"
)

// Store is the combined persistence surface: sessions, conversation state
// and rate-limit counters.
type Store interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SetSession(ctx context.Context, chatID int64, session *models.Session) error
	ClearSession(ctx context.Context, chatID int64) error
	GetState(ctx context.Context, chatID int64) (*models.ChatState, error)
	SetState(ctx context.Context, state *models.ChatState) error
	ClearState(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

// FailoverStore prefers Redis and degrades to memory when it is down,
// probing the primary again after a cooldown. A failover loses nothing
// critical: sessions can be re-established by logging in again.
type FailoverStore struct {
	primary   Store
	fallback  Store
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

const recoverAfter = time.Minute

func (r *FailoverStore) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary store failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverStore) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && time.Since(r.lastCheck) > recoverAfter {
		session, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetSession(ctx, chatID)
}

func (r *FailoverStore) SetSession(ctx context.Context, chatID int64, session *models.Session) error {
	if !r.isDown.Load() {
		if err := r.primary.SetSession(ctx, chatID, session); err == nil {
			return nil
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.SetSession(ctx, chatID, session)
}

func (r *FailoverStore) ClearSession(ctx context.Context, chatID int64) error {
	if !r.isDown.Load() {
		if err := r.primary.ClearSession(ctx, chatID); err == nil {
			return nil
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.ClearSession(ctx, chatID)
}

func (r *FailoverStore) GetState(ctx context.Context, chatID int64) (*models.ChatState, error) {
	if !r.isDown.Load() {
		state, err := r.primary.GetState(ctx, chatID)
		if err == nil {
			return state, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetState(ctx, chatID)
}

func (r *FailoverStore) SetState(ctx context.Context, state *models.ChatState) error {
	if !r.isDown.Load() {
		if err := r.primary.SetState(ctx, state); err == nil {
			return nil
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.SetState(ctx, state)
}

func (r *FailoverStore) ClearState(ctx context.Context, chatID int64) error {
	if !r.isDown.Load() {
		if err := r.primary.ClearState(ctx, chatID); err == nil {
			return nil
		} else {
			r.markDown(err)
		}
	}
	return r.fallback.ClearState(ctx, chatID)
}

func (r *FailoverStore) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, chatID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, chatID, limit, window)
}
