// Package dispatch contains the optimization engine: it translates a fleet,
// a set of incidents and a prepared street network into a multi-commodity
// flow MILP, solves it, and reconstructs per-vehicle routes from the
// solution.
package dispatch

import (
	"fmt"
	"math"

	"github.com/ambuflow/ambuflow/core/milp"
	"github.com/ambuflow/ambuflow/core/model"
	"github.com/ambuflow/ambuflow/core/network"
)

// bigMHeadroom scales the derived big-M above the worst plausible response
// time so the gate never binds for a selected pair.
const bigMHeadroom = 1.5

// pair is one compatible (vehicle, incident) commodity.
type pair struct {
	vehicle  model.Vehicle
	incident model.Incident
}

// builtModel bundles the MILP with the variable maps needed to read the
// solution back.
type builtModel struct {
	model *milp.Model
	pairs []pair
	edges []*network.Edge

	assign []*milp.Var   // y: pair is selected
	use    [][]*milp.Var // x: pair traverses edge, indexed [pair][edge]
	respT  []*milp.Var   // T: pair response time in minutes
	bigM   float64
}

// buildModel constructs the dispatch MILP. It fails without touching a
// solver when no compatible pair exists or when the configured big-M cannot
// cover the largest plausible response time of the instance.
func buildModel(g *network.Graph, fleet []model.Vehicle, base int64, incidents []model.Incident, cfg Config, relax float64) (*builtModel, error) {
	if !g.HasNode(base) {
		return nil, fmt.Errorf("base node %d not in network", base)
	}
	for _, inc := range incidents {
		if !g.HasNode(inc.Node) {
			return nil, fmt.Errorf("incident node %d not in network", inc.Node)
		}
		if inc.Node == base {
			return nil, fmt.Errorf("incident node %d coincides with the base", inc.Node)
		}
	}

	var pairs []pair
	for _, v := range fleet {
		for _, inc := range incidents {
			if v.CanServe(inc.Severity) {
				pairs = append(pairs, pair{vehicle: v, incident: inc})
			}
		}
	}
	if len(pairs) == 0 {
		return nil, ErrNoCompatiblePairs
	}

	bigM, err := resolveBigM(g, incidents, cfg)
	if err != nil {
		return nil, err
	}

	m := milp.NewModel()
	edges := g.Edges()
	bm := &builtModel{
		model:  m,
		pairs:  pairs,
		edges:  edges,
		assign: make([]*milp.Var, len(pairs)),
		use:    make([][]*milp.Var, len(pairs)),
		respT:  make([]*milp.Var, len(pairs)),
		bigM:   bigM,
	}
	for pi := range pairs {
		bm.assign[pi] = m.NewBinary()
		bm.use[pi] = make([]*milp.Var, len(edges))
		for ei := range edges {
			bm.use[pi][ei] = m.NewBinary()
		}
		bm.respT[pi] = m.NewContinuous(math.Inf(1))
	}

	// Coverage: every incident is served by exactly one compatible vehicle.
	for _, inc := range incidents {
		c := m.NewConstraint(milp.Equal, 1)
		for pi, p := range pairs {
			if p.incident.Node == inc.Node {
				c.NewTerm(1, bm.assign[pi])
			}
		}
	}

	// Exclusivity: a vehicle serves at most one incident.
	for _, v := range fleet {
		var vars []*milp.Var
		for pi, p := range pairs {
			if p.vehicle.ID == v.ID {
				vars = append(vars, bm.assign[pi])
			}
		}
		if len(vars) == 0 {
			continue
		}
		c := m.NewConstraint(milp.LessEqual, 1)
		for _, y := range vars {
			c.NewTerm(1, y)
		}
	}

	// Flow conservation per commodity: one unit leaves the base and arrives
	// at the incident node iff the pair is selected. The base row is implied
	// by the remaining balance rows and must be omitted, as must one row per
	// component disconnected from both the base and the incident; keeping
	// them would leave the equality system rank-deficient and break the
	// simplex backend.
	edgeIndex := make(map[*network.Edge]int, len(edges))
	for ei, e := range edges {
		edgeIndex[e] = ei
	}
	anchors := componentAnchors(g, base)
	for pi, p := range pairs {
		for _, nodeID := range g.NodeIDs() {
			if nodeID == base {
				continue
			}
			if nodeID == anchors[nodeID] && anchors[p.incident.Node] != nodeID {
				continue
			}
			c := m.NewConstraint(milp.Equal, 0)
			for _, e := range g.InEdges(nodeID) {
				c.NewTerm(1, bm.use[pi][edgeIndex[e]])
			}
			for _, e := range g.OutEdges(nodeID) {
				c.NewTerm(-1, bm.use[pi][edgeIndex[e]])
			}
			if nodeID == p.incident.Node {
				c.NewTerm(-1, bm.assign[pi])
			}
		}
	}

	// Time linkage: T bounds the realized travel time along the selected
	// edges from below; minimization makes the bound tight.
	for pi, p := range pairs {
		c := m.NewConstraint(milp.GreaterEqual, 0)
		c.NewTerm(1, bm.respT[pi])
		for ei, e := range edges {
			c.NewTerm(-e.LengthKm/p.incident.RequiredSpeed*60, bm.use[pi][ei])
		}
	}

	// Relaxed capacity: the required speeds of all pairs crossing an edge may
	// not exceed its sampled capacity times the relaxation factor.
	for ei, e := range edges {
		c := m.NewConstraint(milp.LessEqual, e.CapacityKmh*relax)
		for pi, p := range pairs {
			c.NewTerm(p.incident.RequiredSpeed, bm.use[pi][ei])
		}
	}

	// Big-M gate: unselected pairs carry zero response time.
	for pi := range pairs {
		c := m.NewConstraint(milp.LessEqual, 0)
		c.NewTerm(1, bm.respT[pi])
		c.NewTerm(-bigM, bm.assign[pi])
	}

	// Objective: priority-and-cost weighted distance plus priority-weighted
	// response time.
	obj := m.Objective()
	for pi, p := range pairs {
		w := float64(p.incident.Priority) * cfg.Gamma * p.vehicle.OperationalCost
		for ei, e := range edges {
			obj.NewTerm(w*e.LengthKm, bm.use[pi][ei])
		}
		obj.NewTerm(float64(p.incident.Priority)*cfg.Beta, bm.respT[pi])
	}

	return bm, nil
}

// componentAnchors labels every node with the anchor of its weakly connected
// component: the one node per component whose balance row the remaining rows
// already imply. The base anchors its own component; other components anchor
// on their first node in insertion order.
func componentAnchors(g *network.Graph, base int64) map[int64]int64 {
	adjacency := make(map[int64][]int64, g.NodeCount())
	for _, e := range g.Edges() {
		adjacency[e.From] = append(adjacency[e.From], e.To)
		adjacency[e.To] = append(adjacency[e.To], e.From)
	}
	anchors := make(map[int64]int64, g.NodeCount())
	seeds := append([]int64{base}, g.NodeIDs()...)
	for _, seed := range seeds {
		if _, ok := anchors[seed]; ok {
			continue
		}
		anchors[seed] = seed
		queue := []int64{seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adjacency[cur] {
				if _, ok := anchors[next]; !ok {
					anchors[next] = seed
					queue = append(queue, next)
				}
			}
		}
	}
	return anchors
}

// resolveBigM derives or validates the big-M constant against the largest
// plausible response time: the whole network traversed at the slowest
// required speed.
func resolveBigM(g *network.Graph, incidents []model.Incident, cfg Config) (float64, error) {
	totalLen := 0.0
	for _, e := range g.Edges() {
		totalLen += e.LengthKm
	}
	minSpeed := math.Inf(1)
	for _, inc := range incidents {
		if inc.RequiredSpeed < minSpeed {
			minSpeed = inc.RequiredSpeed
		}
	}
	maxTime := totalLen / minSpeed * 60
	if cfg.BigM == 0 {
		return maxTime * bigMHeadroom, nil
	}
	if cfg.BigM < maxTime {
		return 0, fmt.Errorf("big_m %v below the largest plausible response time %.1f min", cfg.BigM, maxTime)
	}
	return cfg.BigM, nil
}
