package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persistorai/netgraph/internal/models"
	"github.com/persistorai/netgraph/internal/store"
)

// flakySource fails every call while failing is set.
type flakySource struct {
	failing bool
	calls   int
}

var errDown = errors.New("connection refused")

func (f *flakySource) result() error {
	f.calls++
	if f.failing {
		return errDown
	}

	return nil
}

func (f *flakySource) ListUsers(context.Context) ([]models.User, error) {
	if err := f.result(); err != nil {
		return nil, err
	}

	return []models.User{{ID: 1, Username: "a"}}, nil
}

func (f *flakySource) ListFriendships(context.Context) ([]models.Friendship, error) {
	return nil, f.result()
}

func (f *flakySource) AggregateMessages(context.Context, models.Window) ([]models.MessageAggRow, error) {
	return nil, f.result()
}

func (f *flakySource) MessageTimestamps(context.Context, models.Window) ([]time.Time, error) {
	return nil, f.result()
}

func (f *flakySource) SentMessages(context.Context, models.Window) ([]models.SentMessage, error) {
	return nil, f.result()
}

func (f *flakySource) Ping(context.Context) error { return f.result() }

func testBreakerOptions() store.BreakerOptions {
	opts := store.DefaultBreakerOptions()
	opts.Name = "test"
	opts.MinRequests = 3
	opts.FailureRatio = 0.5
	opts.Timeout = time.Hour

	return opts
}

func TestBreakerSource_PassesThrough(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	src := store.NewBreakerSource(&flakySource{}, testBreakerOptions(), log)

	users, err := src.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "closed", src.State())
}

func TestBreakerSource_OpensAfterFailures(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	inner := &flakySource{failing: true}
	src := store.NewBreakerSource(inner, testBreakerOptions(), log)

	for i := 0; i < 3; i++ {
		_, err := src.ListFriendships(context.Background())
		assert.ErrorIs(t, err, errDown)
	}

	assert.Equal(t, "open", src.State())

	_, err := src.ListUsers(context.Background())
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Equal(t, 3, inner.calls, "open breaker must not reach the source")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "store.breaker_state_changed", hook.LastEntry().Message)
}

func TestBreakerSource_CanceledCallsDoNotTrip(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	src := store.NewBreakerSource(&cancelSource{}, testBreakerOptions(), log)

	for i := 0; i < 5; i++ {
		_, err := src.AggregateMessages(context.Background(), models.Window{})
		assert.ErrorIs(t, err, context.Canceled)
	}

	assert.Equal(t, "closed", src.State())
}

func TestBreakerSource_PingBypassesBreaker(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	inner := &flakySource{failing: true}
	src := store.NewBreakerSource(inner, testBreakerOptions(), log)

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, src.Ping(context.Background()), errDown)
	}

	assert.Equal(t, "closed", src.State())
}

type cancelSource struct{ flakySource }

func (c *cancelSource) AggregateMessages(context.Context, models.Window) ([]models.MessageAggRow, error) {
	return nil, context.Canceled
}
