// Package unlock provides per-player unlocked-card lookups. The match
// engine consults it once per player and caches the result.
package unlock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix = "quizclash:unlocks:"

	// Callers sit on the match loop; a lookup must never hang it.
	lookupTimeout = 2 * time.Second
)

// RedisStore reads unlock sets from Redis. The progression service writes
// them; this process only reads.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// UnlockedCards returns the card ids unlocked by a player. The lookup is
// bounded by lookupTimeout when the caller's context has no deadline.
func (s *RedisStore) UnlockedCards(ctx context.Context, playerID string) ([]string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lookupTimeout)
		defer cancel()
	}
	cards, err := s.rdb.SMembers(ctx, keyPrefix+playerID).Result()
	if err != nil {
		return nil, fmt.Errorf("unlocks for %s: %w", playerID, err)
	}
	return cards, nil
}

// Memory is an in-process store for tests and local play.
type Memory struct {
	cards map[string][]string
}

// NewMemory builds a memory store from a player-to-cards map.
func NewMemory(cards map[string][]string) *Memory {
	if cards == nil {
		cards = make(map[string][]string)
	}
	return &Memory{cards: cards}
}

// Grant adds a card to a player's unlock set.
func (m *Memory) Grant(playerID, cardID string) {
	m.cards[playerID] = append(m.cards[playerID], cardID)
}

// UnlockedCards returns the player's unlock set.
func (m *Memory) UnlockedCards(_ context.Context, playerID string) ([]string, error) {
	return m.cards[playerID], nil
}
