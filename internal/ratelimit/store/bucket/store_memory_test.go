package bucket

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tapclaim/internal/ratelimit/models"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

// fakeClock lets tests slide the window without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{cur: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(d)
}

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	clock *fakeClock
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.clock = newFakeClock()
	s.store = NewInMemory()
	s.store.now = s.clock.Now
	s.ctx = context.Background()
}

// fill consumes n slots for key and fails the test on any store error.
func (s *InMemorySuite) fill(key string, n int) {
	s.T().Helper()
	for range n {
		_, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
		s.Require().NoError(err)
	}
}

func (s *InMemorySuite) TestAllow() {
	s.Run("remaining counts down from the limit", func() {
		key := models.KeyForIP("198.51.100.7")

		result, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)

		s.fill(key, testLimit-1)
		result, err = s.store.Allow(s.ctx, key, testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
	})

	s.Run("denial carries a retry hint", func() {
		key := models.KeyForIP("198.51.100.8")
		s.fill(key, testLimit)

		result, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Equal(int(testWindow.Seconds()), result.RetryAfter)
		s.Equal(s.clock.Now().Add(testWindow), result.ResetAt)
	})

	s.Run("each client IP gets its own bucket", func() {
		s.fill(models.KeyForIP("203.0.113.1"), testLimit)

		result, err := s.store.Allow(s.ctx, models.KeyForIP("203.0.113.2"), testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}

func (s *InMemorySuite) TestWindowSlides() {
	key := models.KeyForIP("198.51.100.9")
	s.fill(key, testLimit)

	s.clock.Advance(testWindow / 2)
	result, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
	s.Require().NoError(err)
	s.False(result.Allowed, "half a window later the burst still counts")
	s.Equal(int((testWindow / 2).Seconds()), result.RetryAfter)

	s.clock.Advance(testWindow/2 + time.Second)
	result, err = s.store.Allow(s.ctx, key, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed, "the burst has left the window")
	s.Equal(testLimit-1, result.Remaining)
}

func (s *InMemorySuite) TestAllowN() {
	key := models.KeyForIP("198.51.100.10")

	result, err := s.store.AllowN(s.ctx, key, 6, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(testLimit-6, result.Remaining)

	// A cost above the remaining budget is denied outright.
	result, err = s.store.AllowN(s.ctx, key, 5, testLimit, testWindow)
	s.Require().NoError(err)
	s.False(result.Allowed)

	// And the denied attempt must not have consumed anything.
	result, err = s.store.AllowN(s.ctx, key, 4, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(0, result.Remaining)
}

func (s *InMemorySuite) TestReset() {
	key := models.KeyForIP("198.51.100.11")
	s.fill(key, testLimit)

	s.Require().NoError(s.store.Reset(s.ctx, key))

	result, err := s.store.AllowN(s.ctx, key, testLimit, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed, "a reset key starts from an empty window")
	s.Equal(0, result.Remaining)
}

func (s *InMemorySuite) TestConcurrent() {
	const limit = 100
	key := models.KeyForIP("198.51.100.12")

	var wg sync.WaitGroup
	var allowed atomic.Int64
	errs := make(chan error, 2*limit)
	for range 2 * limit {
		wg.Go(func() {
			result, err := s.store.Allow(s.ctx, key, limit, testWindow)
			if err != nil {
				errs <- err
				return
			}
			if result.Allowed {
				allowed.Add(1)
			}
		})
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.EqualValues(limit, allowed.Load())
}
