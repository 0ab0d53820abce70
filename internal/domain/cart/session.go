// internal/domain/cart/session.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL is how long an untouched cart survives
const DefaultSessionTTL = 24 * time.Hour

// SessionStore persists the cart between runs
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time
}

// NewSessionStore creates a new redis backed cart session store
func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		redisClient: redisClient,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load returns the persisted session cart. The bool is false when nothing
// was stored or the session expired.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*SessionCart, bool, error) {
	if sessionID == "" {
		return nil, false, fmt.Errorf("session ID required for cart session")
	}

	data, err := s.redisClient.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to load cart session: %w", err)
	}

	var session SessionCart
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false, fmt.Errorf("failed to decode cart session: %w", err)
	}
	return &session, true, nil
}

// Save writes the cart and refreshes the TTL
func (s *SessionStore) Save(ctx context.Context, sessionID string, state State) error {
	if sessionID == "" {
		return fmt.Errorf("session ID required for cart session")
	}

	now := s.now()
	session := SessionCart{
		SessionID: sessionID,
		Items:     state.Clone().Items,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if existing, ok, err := s.Load(ctx, sessionID); err == nil && ok {
		session.CreatedAt = existing.CreatedAt
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode cart session: %w", err)
	}
	if err := s.redisClient.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart session: %w", err)
	}
	return nil
}

// Delete removes the persisted cart
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redisClient.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart session: %w", err)
	}
	return nil
}
