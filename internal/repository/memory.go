package repository

import (
	"context"
	"sync"
	"time"

	"travelbook/internal/models"
)

type sessionEntry struct {
	session   models.Session
	expiresAt time.Time
}

// MemoryStateRepository keeps sessions in process memory. Values are copied
// on the way in and out so callers never share a session pointer.
type MemoryStateRepository struct {
	sessions   sync.Map
	rateLimits sync.Map
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemoryStateRepository) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	val, ok := r.sessions.Load(chatID)
	if !ok {
		return nil, nil
	}
	entry := val.(*sessionEntry)
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		r.sessions.Delete(chatID)
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

func (r *MemoryStateRepository) SetSession(ctx context.Context, session *models.Session) error {
	r.sessions.Store(session.ChatID, &sessionEntry{
		session:   *session,
		expiresAt: r.now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryStateRepository) ClearSession(ctx context.Context, chatID int64) error {
	r.sessions.Delete(chatID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
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
