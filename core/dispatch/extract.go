package dispatch

import (
	"fmt"

	"github.com/ambuflow/ambuflow/core/milp"
	"github.com/ambuflow/ambuflow/core/network"
)

// extractAssignments reads the solved variables back into assignments,
// reconstructing each selected pair's route from its edge-use set.
func extractAssignments(bm *builtModel, sol milp.Solution, base int64) ([]Assignment, error) {
	var out []Assignment
	for pi, p := range bm.pairs {
		if sol.Value(bm.assign[pi]) < 0.5 {
			continue
		}
		var selected []*network.Edge
		for ei, e := range bm.edges {
			if sol.Value(bm.use[pi][ei]) > 0.5 {
				selected = append(selected, e)
			}
		}
		path, distance, err := walkPath(selected, base, p)
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{
			VehicleID:        p.vehicle.ID,
			VehicleClass:     p.vehicle.Class,
			OperationalCost:  p.vehicle.OperationalCost,
			IncidentNode:     p.incident.Node,
			Severity:         p.incident.Severity,
			Priority:         p.incident.Priority,
			TimeMin:          sol.Value(bm.respT[pi]),
			RequiredSpeedKmh: p.incident.RequiredSpeed,
			DistanceKm:       distance,
			Path:             path,
		})
	}
	return out, nil
}

// walkPath stitches the unordered selected edges into the ordered node walk
// from the base to the incident. An adjacency map from source node to its
// selected outgoing edges is walked at most len(selected) steps; anything
// that does not consume every edge as a simple path ending at the incident
// is an invariant violation, reported as a ReconstructionError rather than
// truncated.
func walkPath(selected []*network.Edge, base int64, p pair) ([]int64, float64, error) {
	fail := func(reason string) ([]int64, float64, error) {
		return nil, 0, &ReconstructionError{
			VehicleID:    p.vehicle.ID,
			IncidentNode: p.incident.Node,
			Reason:       reason,
		}
	}
	if len(selected) == 0 {
		return fail("assigned pair selected no edges")
	}

	adjacency := make(map[int64][]*network.Edge, len(selected))
	distance := 0.0
	for _, e := range selected {
		adjacency[e.From] = append(adjacency[e.From], e)
		distance += e.LengthKm
	}

	path := []int64{base}
	visited := map[int64]bool{base: true}
	cur := base
	for used := 0; used < len(selected); used++ {
		outs := adjacency[cur]
		if len(outs) == 0 {
			return fail(fmt.Sprintf("walk stuck at node %d after %d of %d edges", cur, used, len(selected)))
		}
		e := outs[0]
		adjacency[cur] = outs[1:]
		if visited[e.To] {
			return fail(fmt.Sprintf("walk revisits node %d, route is not a simple path", e.To))
		}
		visited[e.To] = true
		path = append(path, e.To)
		cur = e.To
	}
	if cur != p.incident.Node {
		return fail(fmt.Sprintf("walk ends at node %d, not at the incident", cur))
	}
	return path, distance, nil
}
