package score

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

// newTestSink builds a sink whose writes feed a channel instead of Redis.
func newTestSink(size int, write func(a award) error) *RedisSink {
	s := &RedisSink{
		log:   zap.NewNop(),
		queue: make(chan award, size),
		write: write,
	}
	go s.drain()
	return s
}

func TestAwardReachesBackend(t *testing.T) {
	got := make(chan award, 1)
	s := newTestSink(4, func(a award) error {
		got <- a
		return nil
	})
	defer s.Close()

	s.Award("p1", 3, "cardCast")

	select {
	case a := <-got:
		if a.playerID != "p1" || a.points != 3 || a.reason != "cardCast" {
			t.Errorf("award = %+v", a)
		}
	case <-time.After(time.Second):
		t.Fatal("award never written")
	}
}

func TestAwardNeverBlocksOnSlowBackend(t *testing.T) {
	release := make(chan struct{})
	s := newTestSink(1, func(award) error {
		<-release
		return nil
	})
	defer close(release)
	defer s.Close()

	// With the worker stalled, overfill the queue. Every call must return
	// immediately; extras are dropped.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			s.Award("p1", 1, "cardCast")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Award blocked on a stalled backend")
	}
}
