package network

import (
	"fmt"
	"math/rand"

	gonetwork "gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ambuflow/ambuflow/core/model"
)

// betweennessMaxNodes caps the exact betweenness computation; above it the
// base falls back to the highest-degree node.
const betweennessMaxNodes = 2500

// GenerateIncidents picks a base node and a set of incident destinations for
// one simulation round. The graph is restricted to its largest strongly
// connected component, the base is the most central node of that component
// (betweenness, degree fallback on large graphs) and destinations are sampled
// from the nodes reachable from the base. Severities are spread round-robin
// over Critical/Medium/Light and shuffled, one incident per node.
//
// If fewer than count destinations are reachable the round is generated with
// as many as exist.
func GenerateIncidents(g *Graph, count int, rng *rand.Rand) (int64, map[int64]model.Severity, error) {
	if rng == nil {
		return 0, nil, fmt.Errorf("generate incidents: rng is required")
	}
	if count <= 0 {
		return 0, nil, fmt.Errorf("generate incidents: count must be positive")
	}
	if g.EdgeCount() == 0 {
		return 0, nil, fmt.Errorf("generate incidents: graph has no edges")
	}

	dg := simple.NewDirectedGraph()
	for _, id := range g.NodeIDs() {
		if dg.Node(id) == nil {
			dg.AddNode(simple.Node(id))
		}
	}
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		dg.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
	}

	comp := largestComponent(dg)
	base := selectBase(g, comp)

	reachable := descendants(g, base, comp)
	if len(reachable) == 0 {
		return 0, nil, fmt.Errorf("generate incidents: no destination reachable from base %d", base)
	}
	if count > len(reachable) {
		count = len(reachable)
	}
	rng.Shuffle(len(reachable), func(i, j int) { reachable[i], reachable[j] = reachable[j], reachable[i] })

	severities := make([]model.Severity, 0, count)
	rotation := []model.Severity{model.SeverityCritical, model.SeverityMedium, model.SeverityLight}
	for i := 0; i < count; i++ {
		severities = append(severities, rotation[i%len(rotation)])
	}
	rng.Shuffle(len(severities), func(i, j int) { severities[i], severities[j] = severities[j], severities[i] })

	incidents := make(map[int64]model.Severity, count)
	for i := 0; i < count; i++ {
		incidents[reachable[i]] = severities[i]
	}
	return base, incidents, nil
}

// largestComponent returns the member set of the biggest strongly connected
// component. Ties resolve to the first component Tarjan reports.
func largestComponent(dg *simple.DirectedGraph) map[int64]bool {
	var best []int64
	for _, scc := range topo.TarjanSCC(dg) {
		ids := make([]int64, len(scc))
		for i, n := range scc {
			ids[i] = n.ID()
		}
		if len(ids) > len(best) {
			best = ids
		}
	}
	set := make(map[int64]bool, len(best))
	for _, id := range best {
		set[id] = true
	}
	return set
}

// selectBase picks the most central node of the component. Betweenness is
// computed on the subgraph induced by the component, so paths through nodes
// outside it never inflate a score. Exact up to betweennessMaxNodes nodes;
// beyond that the highest-degree node is used. Ties resolve to the lowest
// node id so rounds are reproducible.
func selectBase(g *Graph, comp map[int64]bool) int64 {
	var base int64
	found := false
	if len(comp) <= betweennessMaxNodes {
		sub := simple.NewDirectedGraph()
		for _, id := range g.NodeIDs() {
			if comp[id] && sub.Node(id) == nil {
				sub.AddNode(simple.Node(id))
			}
		}
		for _, e := range g.Edges() {
			if e.From == e.To || !comp[e.From] || !comp[e.To] {
				continue
			}
			sub.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
		}
		bc := gonetwork.Betweenness(sub)
		bestScore := -1.0
		for _, id := range g.NodeIDs() {
			if !comp[id] {
				continue
			}
			if s := bc[id]; !found || s > bestScore || (s == bestScore && id < base) {
				base, bestScore, found = id, s, true
			}
		}
		return base
	}
	bestDeg := -1
	for _, id := range g.NodeIDs() {
		if !comp[id] {
			continue
		}
		if d := g.Degree(id); !found || d > bestDeg || (d == bestDeg && id < base) {
			base, bestDeg, found = id, d, true
		}
	}
	return base
}

// descendants lists, in BFS order, the component nodes reachable from the
// base, excluding the base itself.
func descendants(g *Graph, base int64, comp map[int64]bool) []int64 {
	visited := map[int64]bool{base: true}
	queue := []int64{base}
	var out []int64
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.OutEdges(cur) {
			if visited[e.To] || !comp[e.To] {
				continue
			}
			visited[e.To] = true
			out = append(out, e.To)
			queue = append(queue, e.To)
		}
	}
	return out
}
