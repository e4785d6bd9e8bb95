package graph

import (
	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/models"
)

// Stats describes a build: how many nodes and edges made it into the graph
// and how many input rows were dropped.
type Stats struct {
	Nodes   int
	Edges   int
	Skipped int
}

// Builder turns store rows into graphs. Rows that reference unknown users or
// fail validation are logged and skipped.
type Builder struct {
	log *logrus.Logger
}

// NewBuilder creates a Builder that reports skipped rows to log.
func NewBuilder(log *logrus.Logger) *Builder {
	return &Builder{log: log}
}

func (b *Builder) nodes(users []models.User) (nodeSet, int) {
	set := newNodeSet(len(users))
	skipped := 0

	for _, u := range users {
		if err := u.Validate(); err != nil {
			b.skip("users", err.Error(), logrus.Fields{"user_id": u.ID})
			skipped++

			continue
		}

		if !set.add(u) {
			b.skip("users", "duplicate user id", logrus.Fields{"user_id": u.ID})
			skipped++
		}
	}

	return set, skipped
}

// BuildFriendGraph builds the undirected friendship graph. Both directions of
// a pair collapse into one edge and self-pairs are dropped.
func (b *Builder) BuildFriendGraph(users []models.User, pairs []models.Friendship) (*Undirected, Stats) {
	set, skipped := b.nodes(users)

	g := &Undirected{
		nodeSet: set,
		adj:     make([][]int, set.Len()),
	}

	seen := make(map[Pair]struct{}, len(pairs))

	for _, p := range pairs {
		if err := p.Validate(); err != nil {
			b.skip("friends", err.Error(), logrus.Fields{"user_id": p.UserID, "friend_id": p.FriendID})
			skipped++

			continue
		}

		u, okU := g.Index(p.UserID)
		v, okV := g.Index(p.FriendID)

		if !okU || !okV {
			b.skip("friends", "unknown user", logrus.Fields{"user_id": p.UserID, "friend_id": p.FriendID})
			skipped++

			continue
		}

		if u == v {
			b.skip("friends", "self friendship", logrus.Fields{"user_id": p.UserID})
			skipped++

			continue
		}

		key := Pair{U: min(u, v), V: max(u, v)}
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		g.edges = append(g.edges, Pair{U: u, V: v})
		g.adj[u] = append(g.adj[u], v)
		g.adj[v] = append(g.adj[v], u)
	}

	stats := Stats{Nodes: g.Len(), Edges: g.EdgeCount(), Skipped: skipped}
	b.built("friends", stats, nil)

	return g, stats
}

// BuildMessageGraph builds the weighted message graph from rows aggregated
// over window. A repeated ordered pair replaces the earlier weight; self-sends
// are dropped.
func (b *Builder) BuildMessageGraph(users []models.User, rows []models.MessageAggRow, window models.Window) (*Directed, Stats) {
	set, skipped := b.nodes(users)

	g := &Directed{
		nodeSet: set,
		window:  window,
		out:     make([][]Arc, set.Len()),
		in:      make([][]Arc, set.Len()),
	}

	pos := make(map[Pair]int, len(rows))

	for _, r := range rows {
		fields := logrus.Fields{"sender_id": r.SenderID, "receiver_id": r.ReceiverID}

		if err := r.Validate(); err != nil {
			b.skip("messages", err.Error(), fields)
			skipped++

			continue
		}

		from, okFrom := g.Index(r.SenderID)
		to, okTo := g.Index(r.ReceiverID)

		if !okFrom || !okTo {
			b.skip("messages", "unknown user", fields)
			skipped++

			continue
		}

		if from == to {
			b.skip("messages", "self message", fields)
			skipped++

			continue
		}

		key := Pair{U: from, V: to}
		if i, dup := pos[key]; dup {
			g.arcs[i].Weight = r.Weight
			continue
		}

		pos[key] = len(g.arcs)
		g.arcs = append(g.arcs, Arc{From: from, To: to, Weight: r.Weight})
	}

	for _, a := range g.arcs {
		g.out[a.From] = append(g.out[a.From], a)
		g.in[a.To] = append(g.in[a.To], a)
	}

	stats := Stats{Nodes: g.Len(), Edges: g.ArcCount(), Skipped: skipped}
	b.built("messages", stats, logrus.Fields{"window": window.String()})

	return g, stats
}

func (b *Builder) skip(table, reason string, fields logrus.Fields) {
	b.log.WithFields(fields).WithFields(logrus.Fields{
		"table":  table,
		"reason": reason,
	}).Warn("graph.row_skipped")
}

func (b *Builder) built(kind string, s Stats, extra logrus.Fields) {
	b.log.WithFields(extra).WithFields(logrus.Fields{
		"kind":    kind,
		"nodes":   s.Nodes,
		"edges":   s.Edges,
		"skipped": s.Skipped,
	}).Debug("graph.built")
}
