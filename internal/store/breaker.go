package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/metrics"
	"github.com/persistorai/netgraph/internal/models"
)

// BreakerOptions configures the circuit breaker around a source.
type BreakerOptions struct {
	Name         string
	FailureRatio float64
	MinRequests  uint32
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultBreakerOptions returns the settings used when none are configured.
func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		Name:         "store",
		FailureRatio: 0.6,
		MinRequests:  5,
		MaxRequests:  2,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
	}
}

// BreakerSource fails fast with models.ErrStoreUnavailable once the wrapped
// source keeps failing, and probes it again after the breaker timeout.
type BreakerSource struct {
	next domain.Source
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSource wraps next with a circuit breaker.
func NewBreakerSource(next domain.Source, opts BreakerOptions, log *logrus.Logger) *BreakerSource {
	metrics.BreakerState.WithLabelValues(opts.Name).Set(float64(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.MinRequests {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= opts.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("store.breaker_state_changed")
		},
		// A caller giving up says nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerSource{next: next, cb: cb}
}

func guarded[T any](b *BreakerSource, fn func() (T, error)) (T, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
		}

		return zero, err
	}

	return v.(T), nil
}

// ListUsers delegates through the breaker.
func (b *BreakerSource) ListUsers(ctx context.Context) ([]models.User, error) {
	return guarded(b, func() ([]models.User, error) { return b.next.ListUsers(ctx) })
}

// ListFriendships delegates through the breaker.
func (b *BreakerSource) ListFriendships(ctx context.Context) ([]models.Friendship, error) {
	return guarded(b, func() ([]models.Friendship, error) { return b.next.ListFriendships(ctx) })
}

// AggregateMessages delegates through the breaker.
func (b *BreakerSource) AggregateMessages(ctx context.Context, w models.Window) ([]models.MessageAggRow, error) {
	return guarded(b, func() ([]models.MessageAggRow, error) { return b.next.AggregateMessages(ctx, w) })
}

// MessageTimestamps delegates through the breaker.
func (b *BreakerSource) MessageTimestamps(ctx context.Context, w models.Window) ([]time.Time, error) {
	return guarded(b, func() ([]time.Time, error) { return b.next.MessageTimestamps(ctx, w) })
}

// SentMessages delegates through the breaker.
func (b *BreakerSource) SentMessages(ctx context.Context, w models.Window) ([]models.SentMessage, error) {
	return guarded(b, func() ([]models.SentMessage, error) { return b.next.SentMessages(ctx, w) })
}

// Ping bypasses the breaker so readiness reflects the store itself.
func (b *BreakerSource) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}

var _ domain.Source = (*BreakerSource)(nil)
