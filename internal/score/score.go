// Package score forwards incidental score awards to the progression
// backend. Awards are fire-and-forget: a lost award never affects the
// match.
package score

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	keyPrefix    = "quizclash:xp:"
	queueSize    = 256
	writeTimeout = 2 * time.Second
)

type award struct {
	playerID string
	points   int
	reason   string
}

// RedisSink accumulates awards as Redis counters the progression service
// drains. Writes happen on a worker goroutine so callers never wait on
// Redis; when the queue is full the award is dropped.
type RedisSink struct {
	log   *zap.Logger
	queue chan award
	write func(a award) error
}

// NewRedisSink wraps an existing client and starts the drain worker.
func NewRedisSink(rdb *redis.Client, log *zap.Logger) *RedisSink {
	if log == nil {
		log = zap.NewNop()
	}
	s := &RedisSink{
		log:   log,
		queue: make(chan award, queueSize),
	}
	s.write = func(a award) error {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		return rdb.IncrBy(ctx, keyPrefix+a.playerID, int64(a.points)).Err()
	}
	go s.drain()
	return s
}

// Award enqueues a credit for a player. Never blocks; errors and overflow
// are logged and swallowed.
func (s *RedisSink) Award(playerID string, points int, reason string) {
	select {
	case s.queue <- award{playerID: playerID, points: points, reason: reason}:
	default:
		s.log.Warn("score queue full, award dropped",
			zap.String("player", playerID),
			zap.String("reason", reason))
	}
}

// Close stops the drain worker. Queued awards are discarded.
func (s *RedisSink) Close() {
	close(s.queue)
}

func (s *RedisSink) drain() {
	for a := range s.queue {
		if err := s.write(a); err != nil {
			s.log.Warn("score award failed",
				zap.String("player", a.playerID),
				zap.String("reason", a.reason),
				zap.Error(err))
		}
	}
}

// Nop discards every award.
type Nop struct{}

// Award implements the sink interface with no effect.
func (Nop) Award(string, int, string) {}
