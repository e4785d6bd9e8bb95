package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/netgraph/client"
	"github.com/persistorai/netgraph/internal/analytics"
	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/service"
	"github.com/persistorai/netgraph/internal/store"
)

// offlineFlags are shared by every offline subcommand.
type offlineFlags struct {
	sqlite   string
	tzOffset int
	logLevel string
	timeout  time.Duration
}

func newOfflineCmd() *cobra.Command {
	var f offlineFlags

	cmd := &cobra.Command{
		Use:   "offline",
		Short: "Run an analysis in-process against a SQLite snapshot",
		Long: "Run an analysis without a server. The snapshot must use the netgraph " +
			"schema (users, friends, messages). Output matches the server's JSON.",
	}

	cmd.PersistentFlags().StringVar(&f.sqlite, "sqlite", "", "Path to the SQLite snapshot (required)")
	cmd.PersistentFlags().IntVar(&f.tzOffset, "tz-offset", analytics.DefaultTimezoneOffsetHours, "Hours east of UTC for hourly buckets")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "warn", "Log level written to stderr")
	cmd.PersistentFlags().DurationVar(&f.timeout, "query-timeout", 30*time.Second, "Per-query timeout")
	cmd.MarkPersistentFlagRequired("sqlite") //nolint:errcheck // flag defined above.

	var days, top int
	var user string

	windowed := func(name, short string, run func(context.Context, domain.AnalyticsService, int) (any, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d := domain.ConfiguredWindow
				if cmd.Flags().Changed("days") {
					d = days
				}
				return runOffline(cmd.Context(), f, name, func(ctx context.Context, svc domain.AnalyticsService) (any, error) {
					return run(ctx, svc, d)
				})
			},
		}
		addDaysFlag(c, &days)
		return c
	}

	simple := func(name, short string, run func(context.Context, domain.AnalyticsService) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOffline(cmd.Context(), f, name, run)
			},
		}
	}

	cmd.AddCommand(simple("social", "Friendship graph sized by degree",
		func(ctx context.Context, svc domain.AnalyticsService) (any, error) { return svc.SocialNetwork(ctx) }))
	cmd.AddCommand(windowed("messages", "Message graph sized by total activity",
		func(ctx context.Context, svc domain.AnalyticsService, d int) (any, error) {
			return svc.MessageActivity(ctx, d)
		}))
	cmd.AddCommand(windowed("centrality", "Message graph sized by weighted in-degree",
		func(ctx context.Context, svc domain.AnalyticsService, d int) (any, error) {
			return svc.Centrality(ctx, d)
		}))
	cmd.AddCommand(windowed("hits", "Hub and authority scores",
		func(ctx context.Context, svc domain.AnalyticsService, d int) (any, error) { return svc.HITS(ctx, d) }))

	pagerank := windowed("pagerank", "Message graph scored by PageRank",
		func(ctx context.Context, svc domain.AnalyticsService, d int) (any, error) {
			return svc.PageRank(ctx, d, top)
		})
	pagerank.Flags().IntVar(&top, "top", 10, "Number of top-ranked users to list")
	cmd.AddCommand(pagerank)

	communities := simple("communities", "Louvain communities of the friendship graph",
		func(ctx context.Context, svc domain.AnalyticsService) (any, error) { return svc.Communities(ctx, user) })
	communities.Flags().StringVar(&user, "user", "", "Also report this user's community")
	cmd.AddCommand(communities)

	cmd.AddCommand(&cobra.Command{
		Use:   "path <from> <to>",
		Short: "Shortest friendship path between two usernames",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffline(cmd.Context(), f, "path", func(ctx context.Context, svc domain.AnalyticsService) (any, error) {
				return svc.ShortestPath(ctx, args[0], args[1])
			})
		},
	})

	var window string
	timeseries := simple("timeseries", "Smoothed hourly message volume",
		func(ctx context.Context, svc domain.AnalyticsService) (any, error) {
			return svc.TimeSeries(ctx, window)
		})
	timeseries.Flags().StringVar(&window, "window", "all", "Time window: all|24h")
	cmd.AddCommand(timeseries)

	cmd.AddCommand(simple("behavior", "Messages sent and active period per user",
		func(ctx context.Context, svc domain.AnalyticsService) (any, error) { return svc.UserBehavior(ctx) }))
	cmd.AddCommand(simple("friends", "Friend count distribution",
		func(ctx context.Context, svc domain.AnalyticsService) (any, error) {
			return svc.FriendDistribution(ctx)
		}))

	return cmd
}

func newOfflineLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)

	return log
}

// runOffline opens the snapshot, runs one analysis and prints its result
// through the same formatters as the online commands.
func runOffline(ctx context.Context, f offlineFlags, name string, run func(context.Context, domain.AnalyticsService) (any, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log := newOfflineLogger(f.logLevel)

	src, err := store.OpenSQLite(ctx, f.sqlite, log, f.timeout)
	if err != nil {
		return err
	}
	defer src.Close()

	opts := service.DefaultOptions()
	opts.Location = analytics.FixedOffset(f.tzOffset)

	res, err := run(ctx, service.NewAnalyticsService(src, opts, log))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return printOffline(name, res)
}

// printOffline re-decodes res into the client type for name so offline and
// online output share their table layouts.
func printOffline(name string, res any) error {
	switch name {
	case "social", "messages", "centrality":
		var g client.MetricGraph
		if err := recode(res, &g); err != nil {
			return err
		}
		output(&g, strconv.Itoa(len(g.Nodes)), metricGraphTable(&g))
	case "pagerank":
		var g client.MetricGraph
		if err := recode(res, &g); err != nil {
			return err
		}
		printPageRank(&g)
	case "hits":
		var g client.HITSGraph
		if err := recode(res, &g); err != nil {
			return err
		}
		output(&g, strconv.Itoa(g.Components), hitsTable(&g))
	case "communities":
		var g client.CommunityGraph
		if err := recode(res, &g); err != nil {
			return err
		}
		output(&g, communityQuiet(&g), communityTable(&g))
	case "path":
		var p client.PathResult
		if err := recode(res, &p); err != nil {
			return err
		}
		output(&p, strconv.Itoa(p.Cost), pathTable(&p))
	case "timeseries":
		var ts client.TimeSeries
		if err := recode(res, &ts); err != nil {
			return err
		}
		output(&ts, strconv.Itoa(len(ts.TimeSeries)), timeSeriesTable(&ts))
	case "behavior":
		var r client.UserBehaviorReport
		if err := recode(res, &r); err != nil {
			return err
		}
		output(&r, strconv.Itoa(len(r.UserBehavior)), behaviorTable(&r))
	case "friends":
		var d client.FriendDistribution
		if err := recode(res, &d); err != nil {
			return err
		}
		output(&d, ftoa(d.Mean), distributionTable(&d))
	default:
		formatJSON(res)
	}
	return nil
}

func recode(src, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
