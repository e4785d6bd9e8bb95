package analytics

import (
	"container/heap"
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/persistorai/netgraph/internal/graph"
	"github.com/persistorai/netgraph/internal/models"
)

var pathTracer = otel.Tracer("netgraph.analytics.path")

// Path is a sequence of node indices from start to end inclusive.
type Path struct {
	Nodes []int
	Cost  int
}

// Steps returns the number of hops.
func (p Path) Steps() int { return len(p.Nodes) - 1 }

// SkippedUsers returns the number of users strictly between the endpoints.
// A path from a user to themselves yields -1.
func (p Path) SkippedUsers() int { return len(p.Nodes) - 2 }

type pathItem struct {
	node int
	cost int
	seq  int
	prev *pathItem
}

// pathQueue orders by cost, then by push order.
type pathQueue []*pathItem

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}

	return q[i].seq < q[j].seq
}

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x any) { *q = append(*q, x.(*pathItem)) }

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return item
}

// ShortestPath runs Dijkstra with unit edge weights from start to end.
// It returns models.ErrNoPath when end is unreachable.
func ShortestPath(ctx context.Context, g *graph.Undirected, start, end int) (Path, error) {
	_, span := pathTracer.Start(ctx, "analytics.ShortestPath",
		trace.WithAttributes(
			attribute.Int("nodes", g.Len()),
			attribute.Int("start", start),
			attribute.Int("end", end),
		),
	)
	defer span.End()

	if start < 0 || start >= g.Len() || end < 0 || end >= g.Len() {
		return Path{}, fmt.Errorf("%w: node index out of range", models.ErrUserNotFound)
	}

	visited := make([]bool, g.Len())
	queue := &pathQueue{{node: start}}
	seq := 1

	for queue.Len() > 0 {
		item := heap.Pop(queue).(*pathItem)
		if visited[item.node] {
			continue
		}

		visited[item.node] = true

		if item.node == end {
			p := Path{Nodes: make([]int, 0, item.cost+1), Cost: item.cost}
			for it := item; it != nil; it = it.prev {
				p.Nodes = append(p.Nodes, it.node)
			}

			for i, j := 0, len(p.Nodes)-1; i < j; i, j = i+1, j-1 {
				p.Nodes[i], p.Nodes[j] = p.Nodes[j], p.Nodes[i]
			}

			span.SetAttributes(attribute.Int("cost", p.Cost))

			return p, nil
		}

		for _, nb := range g.Neighbors(item.node) {
			if visited[nb] {
				continue
			}

			heap.Push(queue, &pathItem{node: nb, cost: item.cost + 1, seq: seq, prev: item})
			seq++
		}
	}

	span.AddEvent("no_path")

	return Path{}, models.ErrNoPath
}
