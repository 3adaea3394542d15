package repository

import (
	"context"
	"sync"
	"time"

	"holidaze/internal/models"
)

// MemoryStore is the in-process fallback for sessions and conversation
// state. Entries never expire; the store only lives for a bot restart.
type MemoryStore struct {
	sessions   sync.Map
	states     sync.Map
	rateLimits sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (r *MemoryStore) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	val, ok := r.sessions.Load(chatID)
	if !ok {
		return nil, nil
	}
	return val.(*models.Session), nil
}

func (r *MemoryStore) SetSession(ctx context.Context, chatID int64, session *models.Session) error {
	r.sessions.Store(chatID, session)
	return nil
}

func (r *MemoryStore) ClearSession(ctx context.Context, chatID int64) error {
	r.sessions.Delete(chatID)
	return nil
}

func (r *MemoryStore) GetState(ctx context.Context, chatID int64) (*models.ChatState, error) {
	val, ok := r.states.Load(chatID)
	if !ok {
		return nil, nil
	}
	return val.(*models.ChatState), nil
}

func (r *MemoryStore) SetState(ctx context.Context, state *models.ChatState) error {
	r.states.Store(state.ChatID, state)
	return nil
}

func (r *MemoryStore) ClearState(ctx context.Context, chatID int64) error {
	r.states.Delete(chatID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryStore) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(chatID)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(chatID, entry)
	return entry.count <= limit, nil
}
