// Package analytics computes metrics over friendship and message graphs.
// Results are slices indexed by node index; every node has a value.
package analytics

import "github.com/persistorai/netgraph/internal/graph"

// Degree returns each user's number of friends.
func Degree(g *graph.Undirected) []float64 {
	out := make([]float64, g.Len())
	for i := range out {
		out[i] = float64(g.Degree(i))
	}

	return out
}

// Activity returns the total weight of messages each user sent or received.
func Activity(g *graph.Directed) []float64 {
	out := make([]float64, g.Len())
	for i := range out {
		out[i] = g.OutWeight(i) + g.InWeight(i)
	}

	return out
}

// InWeight returns the total weight of messages each user received.
func InWeight(g *graph.Directed) []float64 {
	out := make([]float64, g.Len())
	for i := range out {
		out[i] = g.InWeight(i)
	}

	return out
}
