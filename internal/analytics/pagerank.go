package analytics

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/persistorai/netgraph/internal/graph"
)

var pageRankTracer = otel.Tracer("netgraph.analytics.pagerank")

const (
	// DefaultDamping is the probability of following an arc rather than teleporting.
	DefaultDamping = 0.85

	// DefaultPageRankIterations caps power iteration.
	DefaultPageRankIterations = 100

	// DefaultPageRankTolerance is the L1 change below which iteration stops.
	DefaultPageRankTolerance = 1e-6
)

// PageRankOptions configures PageRank.
type PageRankOptions struct {
	// Damping must be in [0, 1). Default: 0.85
	Damping float64

	// MaxIterations must be > 0. Default: 100
	MaxIterations int

	// Tolerance must be > 0. Default: 1e-6
	Tolerance float64
}

// DefaultPageRankOptions returns the standard settings.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:       DefaultDamping,
		MaxIterations: DefaultPageRankIterations,
		Tolerance:     DefaultPageRankTolerance,
	}
}

// Validate replaces out-of-range options with defaults.
func (o *PageRankOptions) Validate() {
	if o.Damping < 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}

	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultPageRankIterations
	}

	if o.Tolerance <= 0 {
		o.Tolerance = DefaultPageRankTolerance
	}
}

// PageRankResult holds scores that sum to 1 over all nodes.
type PageRankResult struct {
	Scores     []float64
	Iterations int
	Converged  bool

	// Delta is the L1 change of the last iteration.
	Delta float64
}

// PageRank runs weighted power iteration. Nodes without outgoing weight pass
// no mass forward; every node receives the teleport share. When the cap is
// reached the last iterate is returned with Converged false.
func PageRank(ctx context.Context, g *graph.Directed, opts PageRankOptions) PageRankResult {
	opts.Validate()

	n := g.Len()

	_, span := pageRankTracer.Start(ctx, "analytics.PageRank",
		trace.WithAttributes(
			attribute.Int("nodes", n),
			attribute.Int("arcs", g.ArcCount()),
			attribute.Float64("damping", opts.Damping),
		),
	)
	defer span.End()

	switch n {
	case 0:
		span.AddEvent("empty_graph")
		return PageRankResult{Scores: []float64{}, Converged: true}
	case 1:
		span.AddEvent("single_node")
		return PageRankResult{Scores: []float64{1}, Converged: true}
	}

	outWeight := make([]float64, n)
	for i := range outWeight {
		outWeight[i] = g.OutWeight(i)
	}

	rank := make([]float64, n)
	next := make([]float64, n)

	for i := range rank {
		rank[i] = 1 / float64(n)
	}

	teleport := (1 - opts.Damping) / float64(n)
	arcs := g.Arcs()
	result := PageRankResult{}

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		for i := range next {
			next[i] = teleport
		}

		for _, a := range arcs {
			next[a.To] += opts.Damping * rank[a.From] * a.Weight / outWeight[a.From]
		}

		var delta float64
		for i := range next {
			delta += math.Abs(next[i] - rank[i])
		}

		rank, next = next, rank
		result.Iterations = iter
		result.Delta = delta

		if delta < opts.Tolerance {
			result.Converged = true
			break
		}
	}

	var total float64
	for _, r := range rank {
		total += r
	}

	for i := range rank {
		rank[i] /= total
	}

	result.Scores = rank

	span.SetAttributes(
		attribute.Int("iterations", result.Iterations),
		attribute.Bool("converged", result.Converged),
		attribute.Float64("delta", result.Delta),
	)

	return result
}
