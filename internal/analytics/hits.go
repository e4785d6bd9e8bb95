package analytics

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/persistorai/netgraph/internal/graph"
)

var hitsTracer = otel.Tracer("netgraph.analytics.hits")

const (
	// DefaultHITSIterations caps power iteration per component.
	DefaultHITSIterations = 1000

	// DefaultHITSTolerance is the L2 change below which a component converges.
	DefaultHITSTolerance = 1e-15
)

// HITSOptions configures HITS.
type HITSOptions struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultHITSOptions returns the standard settings.
func DefaultHITSOptions() HITSOptions {
	return HITSOptions{MaxIterations: DefaultHITSIterations, Tolerance: DefaultHITSTolerance}
}

// Validate replaces out-of-range options with defaults.
func (o *HITSOptions) Validate() {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultHITSIterations
	}

	if o.Tolerance <= 0 {
		o.Tolerance = DefaultHITSTolerance
	}
}

// HITSResult holds hub and authority scores merged across components.
// Scores within a converged component have unit L2 norm.
type HITSResult struct {
	Hubs        []float64
	Authorities []float64

	// Components maps each node to its weakly-connected component.
	Components     []int
	ComponentCount int

	// Fallback lists components scored by weighted degree because power
	// iteration hit the cap.
	Fallback []int
}

// HITS scores every weakly-connected component of g independently.
// Components without arcs score zero.
func HITS(ctx context.Context, g *graph.Directed, opts HITSOptions) HITSResult {
	opts.Validate()

	_, span := hitsTracer.Start(ctx, "analytics.HITS",
		trace.WithAttributes(
			attribute.Int("nodes", g.Len()),
			attribute.Int("arcs", g.ArcCount()),
		),
	)
	defer span.End()

	labels, count := g.WeakComponents()

	result := HITSResult{
		Hubs:           make([]float64, g.Len()),
		Authorities:    make([]float64, g.Len()),
		Components:     labels,
		ComponentCount: count,
	}

	if g.Len() == 0 {
		span.AddEvent("empty_graph")
		return result
	}

	members := make([][]int, count)
	for node, c := range labels {
		members[c] = append(members[c], node)
	}

	for c, nodes := range members {
		if !hasArcs(g, nodes) {
			continue
		}

		if !hitsComponent(g, nodes, opts, result.Hubs, result.Authorities) {
			span.AddEvent("component_fallback", trace.WithAttributes(
				attribute.Int("component", c),
				attribute.Int("size", len(nodes)),
			))

			for _, n := range nodes {
				result.Hubs[n] = g.OutWeight(n)
				result.Authorities[n] = g.InWeight(n)
			}

			result.Fallback = append(result.Fallback, c)
		}
	}

	span.SetAttributes(
		attribute.Int("components", count),
		attribute.Int("fallback_components", len(result.Fallback)),
	)

	return result
}

func hasArcs(g *graph.Directed, nodes []int) bool {
	for _, n := range nodes {
		if len(g.Out(n)) > 0 {
			return true
		}
	}

	return false
}

// hitsComponent iterates authority = Aᵗ·hub, hub = A·authority over one
// component, writing into the global hub and authority slices. It reports
// whether the iteration converged.
func hitsComponent(g *graph.Directed, nodes []int, opts HITSOptions, hubs, auths []float64) bool {
	local := make(map[int]int, len(nodes))
	for i, n := range nodes {
		local[n] = i
	}

	k := len(nodes)
	hub := make([]float64, k)
	auth := make([]float64, k)
	nextHub := make([]float64, k)
	nextAuth := make([]float64, k)

	for i := range hub {
		hub[i] = 1 / math.Sqrt(float64(k))
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		clear(nextAuth)
		clear(nextHub)

		for i, n := range nodes {
			for _, a := range g.Out(n) {
				nextAuth[local[a.To]] += a.Weight * hub[i]
			}
		}

		normalizeL2(nextAuth)

		for i, n := range nodes {
			for _, a := range g.Out(n) {
				nextHub[i] += a.Weight * nextAuth[local[a.To]]
			}
		}

		normalizeL2(nextHub)

		delta := distanceL2(hub, nextHub) + distanceL2(auth, nextAuth)

		hub, nextHub = nextHub, hub
		auth, nextAuth = nextAuth, auth

		if delta < opts.Tolerance {
			for i, n := range nodes {
				hubs[n] = hub[i]
				auths[n] = auth[i]
			}

			return true
		}
	}

	return false
}

func normalizeL2(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}

	if sum == 0 {
		return
	}

	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}

func distanceL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}
