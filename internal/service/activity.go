package service

import (
	"context"
	"fmt"

	"github.com/persistorai/netgraph/internal/analytics"
	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/models"
	"github.com/persistorai/netgraph/internal/presentation"
)

// Timestamp layouts in activity payloads.
const (
	bucketLayout = "2006-01-02 15:04:05"
	periodLayout = "2006-01-02 15:04:05-07:00"
)

// TimeSeries counts messages per local hour with a trailing rolling mean.
// window is "all" (the default) or "24h".
func (s *AnalyticsService) TimeSeries(ctx context.Context, window string) (*models.TimeSeries, error) {
	defer timeAnalysis("timeseries").ObserveDuration()

	var w models.Window

	switch window {
	case "", domain.WindowAll:
		window = domain.WindowAll
	case domain.WindowLast24h:
		w = models.LastHours(s.opts.Now(), 24)
	default:
		return nil, fmt.Errorf("%w: window must be %q or %q, got %q",
			models.ErrInvalidInput, domain.WindowAll, domain.WindowLast24h, window)
	}

	s.log.WithField("window", w.String()).Debug("analytics.timeseries")

	stamps, err := s.source.MessageTimestamps(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("listing message timestamps: %w", err)
	}

	series := analytics.HourlySeries(stamps, s.opts.Location, s.opts.SmoothingWindow)
	if len(series) == 0 {
		s.emptyResult("timeseries")
	}

	out := &models.TimeSeries{
		Window:     window,
		TimeSeries: make([]models.TimePoint, len(series)),
	}

	for i, b := range series {
		out.TimeSeries[i] = models.TimePoint{
			Timestamp: b.Start.Format(bucketLayout),
			Count:     b.Smoothed,
			RawCount:  b.Count,
		}
	}

	return out, nil
}

// UserBehavior reports each sender's message count and busiest local hour.
// Users who never sent a message are left out.
func (s *AnalyticsService) UserBehavior(ctx context.Context) (*models.UserBehaviorReport, error) {
	defer timeAnalysis("behavior").ObserveDuration()

	s.log.Debug("analytics.user_behavior")

	msgs, err := s.source.SentMessages(ctx, models.Window{})
	if err != nil {
		return nil, fmt.Errorf("listing sent messages: %w", err)
	}

	behavior := analytics.UserBehavior(msgs, s.opts.Location)
	if len(behavior) == 0 {
		s.emptyResult("behavior")
	}

	out := &models.UserBehaviorReport{UserBehavior: make([]models.UserBehavior, len(behavior))}

	for i, b := range behavior {
		out.UserBehavior[i] = models.UserBehavior{
			UserID:       b.UserID,
			Username:     b.Username,
			MessageCount: b.MessageCount,
			ActivePeriod: b.ActiveHour.Format(periodLayout),
		}
	}

	return out, nil
}

// FriendDistribution reports the friend count of every user who has friends,
// with the mean and median over those users.
func (s *AnalyticsService) FriendDistribution(ctx context.Context) (*models.FriendDistribution, error) {
	defer timeAnalysis("friend_distribution").ObserveDuration()

	s.log.Debug("analytics.friend_distribution")

	g, err := s.friendGraph(ctx)
	if err != nil {
		return nil, err
	}

	d := analytics.FriendDistribution(g)
	if len(d.Counts) == 0 {
		return nil, fmt.Errorf("%w: no friendships", models.ErrDataUnavailable)
	}

	values := make([]float64, len(d.Counts))
	for i, c := range d.Counts {
		values[i] = float64(c.Count)
	}

	lo, hi := presentation.Bounds(values)

	out := &models.FriendDistribution{
		Users:  make([]models.FriendCount, len(d.Counts)),
		Mean:   d.Mean,
		Median: d.Median,
		Colors: presentation.Blues,
	}

	for i, c := range d.Counts {
		u := g.User(c.Node)
		out.Users[i] = models.FriendCount{
			UserID:      u.ID,
			Username:    u.Username,
			FriendCount: c.Count,
			Color:       presentation.Blues.Color(values[i], lo, hi),
		}
	}

	return out, nil
}
