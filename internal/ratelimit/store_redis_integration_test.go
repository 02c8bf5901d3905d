//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rgckd/hc-self-service-portal/internal/ratelimit"
	"github.com/rgckd/hc-self-service-portal/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *ratelimit.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = ratelimit.NewRedisStore(s.redis.Client, "test:ratelimit")
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestIncrCounts() {
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		n, err := s.store.Incr(ctx, "ip1", time.Minute)
		s.Require().NoError(err)
		s.Equal(i, n)
	}
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()

	n, err := s.store.Incr(ctx, "ip1", time.Second)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	time.Sleep(1100 * time.Millisecond)

	n, err = s.store.Incr(ctx, "ip1", time.Second)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}
