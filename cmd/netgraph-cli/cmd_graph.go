package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/persistorai/netgraph/client"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Graph analysis commands",
	}
	cmd.AddCommand(graphSocialCmd())
	cmd.AddCommand(graphWindowedCmd("messages", "Message graph sized by total activity", (*client.GraphService).Messages))
	cmd.AddCommand(graphWindowedCmd("centrality", "Message graph sized by weighted in-degree", (*client.GraphService).Centrality))
	cmd.AddCommand(graphPageRankCmd())
	cmd.AddCommand(graphHITSCmd())
	cmd.AddCommand(graphCommunitiesCmd())
	cmd.AddCommand(graphPathCmd())
	return cmd
}

// addDaysFlag registers --days. windowFrom returns nil unless it was set so
// the server's configured window applies.
func addDaysFlag(cmd *cobra.Command, days *int) {
	cmd.Flags().IntVar(days, "days", 0, "Message window in days; 0 means all time (default: server setting)")
}

func windowFrom(cmd *cobra.Command, days int) *client.WindowOptions {
	if !cmd.Flags().Changed("days") {
		return nil
	}
	return &client.WindowOptions{Days: client.Days(days)}
}

func graphSocialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "social",
		Short: "Friendship graph sized by degree",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			g, err := apiClient.Graph.Social(context.Background())
			if err != nil {
				fatal("social", err)
			}
			output(g, strconv.Itoa(len(g.Nodes)), metricGraphTable(g))
		},
	}
}

type windowedCall func(*client.GraphService, context.Context, *client.WindowOptions) (*client.MetricGraph, error)

func graphWindowedCmd(name, short string, call windowedCall) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			g, err := call(apiClient.Graph, context.Background(), windowFrom(cmd, days))
			if err != nil {
				fatal(name, err)
			}
			output(g, strconv.Itoa(len(g.Nodes)), metricGraphTable(g))
		},
	}
	addDaysFlag(cmd, &days)
	return cmd
}

func graphPageRankCmd() *cobra.Command {
	var days, top int
	cmd := &cobra.Command{
		Use:   "pagerank",
		Short: "Message graph scored by PageRank",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.PageRankOptions{Top: top}
			if w := windowFrom(cmd, days); w != nil {
				opts.WindowOptions = *w
			}
			g, err := apiClient.Graph.PageRank(context.Background(), opts)
			if err != nil {
				fatal("pagerank", err)
			}
			printPageRank(g)
		},
	}
	addDaysFlag(cmd, &days)
	cmd.Flags().IntVar(&top, "top", 10, "Number of top-ranked users to list")
	return cmd
}

func printPageRank(g *client.MetricGraph) {
	if len(g.TopUsers) == 0 {
		output(g, "", metricGraphTable(g))
		return
	}
	output(g, g.TopUsers[0].Username, rankingTable(g.TopUsers))
}

func graphHITSCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "hits",
		Short: "Hub and authority scores per weakly-connected component",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			g, err := apiClient.Graph.HITS(context.Background(), windowFrom(cmd, days))
			if err != nil {
				fatal("hits", err)
			}
			output(g, strconv.Itoa(g.Components), hitsTable(g))
		},
	}
	addDaysFlag(cmd, &days)
	return cmd
}

func graphCommunitiesCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "communities",
		Short: "Louvain communities of the friendship graph",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			g, err := apiClient.Graph.Communities(context.Background(), user)
			if err != nil {
				fatal("communities", err)
			}
			output(g, communityQuiet(g), communityTable(g))
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Also report this user's community")
	return cmd
}

// communityQuiet is the looked-up user's community id, or the number of
// communities without a lookup.
func communityQuiet(g *client.CommunityGraph) string {
	if g.Lookup != nil {
		return strconv.Itoa(g.Lookup.Community)
	}
	return strconv.Itoa(len(g.CommunityMap))
}

func graphPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Shortest friendship path between two usernames",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			p, err := apiClient.Graph.ShortestPath(context.Background(), args[0], args[1])
			if err != nil {
				fatal("path", err)
			}
			output(p, strconv.Itoa(p.Cost), pathTable(p))
		},
	}
}
