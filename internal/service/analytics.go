// Package service orchestrates each analysis: fetch rows from the source,
// build the graph, score it and map the scores for presentation.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/netgraph/internal/analytics"
	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/graph"
	"github.com/persistorai/netgraph/internal/metrics"
	"github.com/persistorai/netgraph/internal/models"
)

// MaxWindowDays bounds an explicit days parameter.
const MaxWindowDays = 3650

// Compile-time check: *AnalyticsService must satisfy domain.AnalyticsService.
var _ domain.AnalyticsService = (*AnalyticsService)(nil)

// Options configures AnalyticsService. Window fields are in days; 0 means
// all time.
type Options struct {
	ActivityWindowDays   int
	CentralityWindowDays int
	PageRankWindowDays   int
	HITSWindowDays       int

	// Location is the fixed zone hourly buckets are cut in.
	Location *time.Location

	// SmoothingWindow is the rolling mean width in buckets.
	SmoothingWindow int

	PageRank analytics.PageRankOptions
	HITS     analytics.HITSOptions

	// Now returns the reference time for windows. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns 30-day windows in UTC+8.
func DefaultOptions() Options {
	return Options{
		ActivityWindowDays:   30,
		CentralityWindowDays: 30,
		PageRankWindowDays:   30,
		HITSWindowDays:       30,
		Location:             analytics.FixedOffset(analytics.DefaultTimezoneOffsetHours),
		SmoothingWindow:      analytics.DefaultSmoothingWindow,
		PageRank:             analytics.DefaultPageRankOptions(),
		HITS:                 analytics.DefaultHITSOptions(),
		Now:                  time.Now,
	}
}

func (o *Options) normalize() {
	if o.Location == nil {
		o.Location = analytics.FixedOffset(analytics.DefaultTimezoneOffsetHours)
	}

	if o.SmoothingWindow <= 0 {
		o.SmoothingWindow = analytics.DefaultSmoothingWindow
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	if o.PageRank == (analytics.PageRankOptions{}) {
		o.PageRank = analytics.DefaultPageRankOptions()
	}

	o.PageRank.Validate()
	o.HITS.Validate()
}

// AnalyticsService implements every analysis over a domain.Source. It holds
// no state between calls; each call re-reads the source.
type AnalyticsService struct {
	source  domain.Source
	builder *graph.Builder
	opts    Options
	log     *logrus.Logger
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(source domain.Source, opts Options, log *logrus.Logger) *AnalyticsService {
	opts.normalize()

	return &AnalyticsService{
		source:  source,
		builder: graph.NewBuilder(log),
		opts:    opts,
		log:     log,
	}
}

// Ready reports whether the source is reachable.
func (s *AnalyticsService) Ready(ctx context.Context) error {
	return s.source.Ping(ctx)
}

// window resolves a days parameter against a configured default.
func (s *AnalyticsService) window(days, configured int) (models.Window, error) {
	if days == domain.ConfiguredWindow {
		days = configured
	}

	if days < 0 || days > MaxWindowDays {
		return models.Window{}, fmt.Errorf("%w: days must be between 0 and %d, got %d",
			models.ErrInvalidInput, MaxWindowDays, days)
	}

	return models.LastDays(s.opts.Now(), days), nil
}

func timeAnalysis(name string) *prometheus.Timer {
	return prometheus.NewTimer(metrics.AnalysisDuration.WithLabelValues(name))
}

// friendGraph fetches users and friendships concurrently and builds the
// undirected graph.
func (s *AnalyticsService) friendGraph(ctx context.Context) (*graph.Undirected, error) {
	var (
		users []models.User
		pairs []models.Friendship
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		users, err = s.source.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		pairs, err = s.source.ListFriendships(gctx)
		if err != nil {
			return fmt.Errorf("listing friendships: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fg, stats := s.builder.BuildFriendGraph(users, pairs)
	recordBuild("friends", stats)

	if fg.Len() == 0 {
		return nil, fmt.Errorf("%w: no users", models.ErrDataUnavailable)
	}

	return fg, nil
}

// messageGraph fetches users and aggregated messages inside w concurrently
// and builds the directed graph.
func (s *AnalyticsService) messageGraph(ctx context.Context, w models.Window) (*graph.Directed, error) {
	var (
		users []models.User
		rows  []models.MessageAggRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		users, err = s.source.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		rows, err = s.source.AggregateMessages(gctx, w)
		if err != nil {
			return fmt.Errorf("aggregating messages: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	mg, stats := s.builder.BuildMessageGraph(users, rows, w)
	recordBuild("messages", stats)

	if mg.Len() == 0 {
		return nil, fmt.Errorf("%w: no users", models.ErrDataUnavailable)
	}

	return mg, nil
}

func recordBuild(kind string, stats graph.Stats) {
	metrics.GraphNodes.WithLabelValues(kind).Set(float64(stats.Nodes))
	metrics.GraphEdges.WithLabelValues(kind).Set(float64(stats.Edges))

	if stats.Skipped > 0 {
		metrics.SkippedRowsTotal.WithLabelValues(kind).Add(float64(stats.Skipped))
	}
}

func (s *AnalyticsService) nonConvergence(algorithm string, fields logrus.Fields) {
	metrics.NonConvergenceTotal.WithLabelValues(algorithm).Inc()
	s.log.WithFields(fields).WithField("algorithm", algorithm).Warn("analytics.nonconvergence")
}

func (s *AnalyticsService) emptyResult(analysis string) {
	s.log.WithField("analysis", analysis).Debug("analytics.empty_result")
}
