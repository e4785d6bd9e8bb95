package analytics

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/persistorai/netgraph/internal/graph"
)

var communityTracer = otel.Tracer("netgraph.analytics.community")

// minModularityGain stops a level once a full pass improves modularity by less.
const minModularityGain = 1e-7

// CommunityResult is a partition of the friendship graph. Nodes without
// friends share the overflow community whose id equals Count.
type CommunityResult struct {
	Membership []int
	Count      int
	Overflow   bool
	Modularity float64
	Levels     int
}

// Buckets returns the number of distinct ids in Membership, overflow included.
func (r CommunityResult) Buckets() int {
	if r.Overflow {
		return r.Count + 1
	}

	return r.Count
}

// Members groups node indices by community id.
func (r CommunityResult) Members() map[int][]int {
	out := make(map[int][]int, r.Buckets())
	for node, c := range r.Membership {
		out[c] = append(out[c], node)
	}

	return out
}

type weightedEdge struct {
	to int
	w  float64
}

// louvainLevel is a weighted graph in which a node may carry a self-loop.
// k[i] counts the self-loop twice.
type louvainLevel struct {
	nbrs  [][]weightedEdge
	loops []float64
	k     []float64
	m2    float64
}

func (lv *louvainLevel) finish() {
	lv.k = make([]float64, len(lv.nbrs))
	lv.m2 = 0

	for i, edges := range lv.nbrs {
		k := 2 * lv.loops[i]
		for _, e := range edges {
			k += e.w
		}

		lv.k[i] = k
		lv.m2 += k
	}
}

// Communities partitions g by Louvain modularity optimization. Nodes are
// visited in index order so the result is deterministic.
func Communities(ctx context.Context, g *graph.Undirected) CommunityResult {
	_, span := communityTracer.Start(ctx, "analytics.Communities",
		trace.WithAttributes(
			attribute.Int("nodes", g.Len()),
			attribute.Int("edges", g.EdgeCount()),
		),
	)
	defer span.End()

	result := CommunityResult{Membership: make([]int, g.Len())}

	active := make([]int, 0, g.Len())
	local := make(map[int]int, g.Len())

	for i := 0; i < g.Len(); i++ {
		if g.Degree(i) > 0 {
			local[i] = len(active)
			active = append(active, i)
		}
	}

	if len(active) == 0 {
		span.AddEvent("no_edges")
		result.Overflow = g.Len() > 0

		return result
	}

	base := &louvainLevel{
		nbrs:  make([][]weightedEdge, len(active)),
		loops: make([]float64, len(active)),
	}

	for li, node := range active {
		for _, nb := range g.Neighbors(node) {
			base.nbrs[li] = append(base.nbrs[li], weightedEdge{to: local[nb], w: 1})
		}
	}

	base.finish()

	membership := make([]int, len(active))
	for i := range membership {
		membership[i] = i
	}

	lv := base

	for {
		comm, moved := louvainPass(lv)
		if !moved {
			break
		}

		comm, count := renumber(comm)
		for i, c := range membership {
			membership[i] = comm[c]
		}

		result.Levels++

		if count == len(lv.nbrs) {
			break
		}

		lv = aggregate(lv, comm, count)
	}

	membership, result.Count = renumber(membership)
	result.Modularity = modularity(base, membership)

	for li, node := range active {
		result.Membership[node] = membership[li]
	}

	for i := 0; i < g.Len(); i++ {
		if g.Degree(i) == 0 {
			result.Membership[i] = result.Count
			result.Overflow = true
		}
	}

	span.SetAttributes(
		attribute.Int("communities", result.Count),
		attribute.Int("levels", result.Levels),
		attribute.Float64("modularity", result.Modularity),
	)

	return result
}

// louvainPass moves nodes between communities until a pass makes no move or
// no longer improves modularity meaningfully.
func louvainPass(lv *louvainLevel) ([]int, bool) {
	n := len(lv.nbrs)
	comm := make([]int, n)
	tot := make([]float64, n)

	for i := range comm {
		comm[i] = i
		tot[i] = lv.k[i]
	}

	moved := false
	current := modularity(lv, comm)
	weights := make(map[int]float64)
	order := make([]int, 0)

	for {
		moves := 0

		for i := 0; i < n; i++ {
			own := comm[i]
			clear(weights)
			order = order[:0]

			for _, e := range lv.nbrs[i] {
				c := comm[e.to]
				if _, ok := weights[c]; !ok {
					order = append(order, c)
				}

				weights[c] += e.w
			}

			tot[own] -= lv.k[i]

			best := own
			bestGain := weights[own] - tot[own]*lv.k[i]/lv.m2

			for _, c := range order {
				if c == own {
					continue
				}

				if gain := weights[c] - tot[c]*lv.k[i]/lv.m2; gain > bestGain {
					best, bestGain = c, gain
				}
			}

			tot[best] += lv.k[i]
			comm[i] = best

			if best != own {
				moves++
			}
		}

		if moves == 0 {
			break
		}

		moved = true

		next := modularity(lv, comm)
		if next-current < minModularityGain {
			break
		}

		current = next
	}

	return comm, moved
}

// aggregate collapses each community of lv into a single node.
func aggregate(lv *louvainLevel, comm []int, count int) *louvainLevel {
	next := &louvainLevel{
		nbrs:  make([][]weightedEdge, count),
		loops: make([]float64, count),
	}

	between := make([]map[int]float64, count)
	for i := range between {
		between[i] = make(map[int]float64)
	}

	for i, edges := range lv.nbrs {
		ci := comm[i]
		next.loops[ci] += lv.loops[i]

		for _, e := range edges {
			cj := comm[e.to]
			if ci == cj {
				next.loops[ci] += e.w / 2
			} else {
				between[ci][cj] += e.w
			}
		}
	}

	for c, m := range between {
		keys := make([]int, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}

		sort.Ints(keys)

		for _, k := range keys {
			next.nbrs[c] = append(next.nbrs[c], weightedEdge{to: k, w: m[k]})
		}
	}

	next.finish()

	return next
}

// modularity computes Σ_c [in_c/2m − (tot_c/2m)²] where in_c counts internal
// edge weight from both endpoints.
func modularity(lv *louvainLevel, comm []int) float64 {
	if lv.m2 == 0 {
		return 0
	}

	in := make(map[int]float64)
	tot := make(map[int]float64)

	for i, edges := range lv.nbrs {
		c := comm[i]
		tot[c] += lv.k[i]
		in[c] += 2 * lv.loops[i]

		for _, e := range edges {
			if comm[e.to] == c {
				in[c] += e.w
			}
		}
	}

	var q float64
	for c, t := range tot {
		q += in[c]/lv.m2 - (t/lv.m2)*(t/lv.m2)
	}

	return q
}

// renumber maps community labels to dense ids in order of first appearance.
func renumber(comm []int) ([]int, int) {
	ids := make(map[int]int)
	out := make([]int, len(comm))

	for i, c := range comm {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}

		out[i] = id
	}

	return out, len(ids)
}
