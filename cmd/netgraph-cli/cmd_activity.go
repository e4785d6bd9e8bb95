package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server liveness and readiness",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			h, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			r, rerr := apiClient.Ready(context.Background())
			if r == nil {
				fatal("ready", rerr)
			}
			out := map[string]any{"health": h, "ready": r}
			output(out, r.Status, func() ([]string, [][]string) {
				return []string{"STATUS", "VERSION", "SCHEMA", "STORE"},
					[][]string{{r.Status, h.Version, strconv.Itoa(h.SchemaVersion), r.Checks["store"]}}
			})
		},
	}
}

func newTimeSeriesCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "timeseries",
		Short: "Smoothed hourly message volume",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ts, err := apiClient.Activity.TimeSeries(context.Background(), window)
			if err != nil {
				fatal("timeseries", err)
			}
			output(ts, strconv.Itoa(len(ts.TimeSeries)), timeSeriesTable(ts))
		},
	}
	cmd.Flags().StringVar(&window, "window", "all", "Time window: all|24h")
	return cmd
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Per-user statistics",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "behavior",
		Short: "Messages sent and active period per user",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			r, err := apiClient.Activity.Behavior(context.Background())
			if err != nil {
				fatal("behavior", err)
			}
			output(r, strconv.Itoa(len(r.UserBehavior)), behaviorTable(r))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "friends",
		Short: "Friend count distribution",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			d, err := apiClient.Activity.FriendDistribution(context.Background())
			if err != nil {
				fatal("friend distribution", err)
			}
			output(d, ftoa(d.Mean), distributionTable(d))
		},
	})
	return cmd
}
