package dispatch

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambuflow/ambuflow/core/model"
	"github.com/ambuflow/ambuflow/core/network"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	eng, err := NewEngine(cfg, nil, nil, nil)
	require.NoError(t, err)
	return eng
}

var testSpeeds = map[model.Severity]float64{
	model.SeverityLight:    30,
	model.SeverityMedium:   45,
	model.SeverityCritical: 55,
}

func TestOptimizeDiamond(t *testing.T) {
	g := diamond(t)
	eng := newTestEngine(t, Config{})

	incidents := map[int64]model.Severity{
		1: model.SeverityMedium,
		3: model.SeverityLight,
	}
	res, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	require.NoError(t, err)

	require.Len(t, res.Assignments, len(incidents))
	assert.Equal(t, "optimal", res.Status)

	seenVehicles := map[string]bool{}
	seenNodes := map[int64]bool{}
	for _, a := range res.Assignments {
		assert.False(t, seenVehicles[a.VehicleID], "vehicle %s assigned twice", a.VehicleID)
		seenVehicles[a.VehicleID] = true
		assert.False(t, seenNodes[a.IncidentNode], "incident %d served twice", a.IncidentNode)
		seenNodes[a.IncidentNode] = true

		assert.GreaterOrEqual(t, a.VehicleClass.Rank(), a.Priority,
			"vehicle %s (%s) cannot serve %s", a.VehicleID, a.VehicleClass, a.Severity)
		require.NotEmpty(t, a.Path)
		assert.Equal(t, int64(0), a.Path[0])
		assert.Equal(t, a.IncidentNode, a.Path[len(a.Path)-1])
		assert.Equal(t, float64(len(a.Path)-1), a.DistanceKm, "unit-length edges")
		assert.InDelta(t, a.DistanceKm/a.RequiredSpeedKmh*60, a.TimeMin, 1e-6)
	}

	// The cheapest feasible matching sends the medium vehicle one edge to
	// node 1 and the light vehicle two edges to node 3:
	//   2*135*1 + 0.5*2*(60/45) + 1*85*2 + 0.5*1*(120/30)
	want := 270 + 4.0/3.0 + 170 + 2.0
	assert.InDelta(t, want, res.TotalCost, 1e-6)
}

func TestOptimizeAssignmentsSortedByPriority(t *testing.T) {
	g := diamond(t)
	eng := newTestEngine(t, Config{})

	incidents := map[int64]model.Severity{
		1: model.SeverityLight,
		3: model.SeverityCritical,
	}
	res, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	require.NoError(t, err)
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, model.SeverityCritical, res.Assignments[0].Severity)
	assert.Equal(t, model.SeverityLight, res.Assignments[1].Severity)
}

func TestOptimizeDeterministic(t *testing.T) {
	g := diamond(t)
	eng := newTestEngine(t, Config{})
	incidents := map[int64]model.Severity{
		1: model.SeverityMedium,
		3: model.SeverityLight,
	}

	first, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	require.NoError(t, err)
	second, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	require.NoError(t, err)

	assert.NotEqual(t, first.RoundID, second.RoundID)
	assert.Equal(t, first.TotalCost, second.TotalCost)
	require.Equal(t, len(first.Assignments), len(second.Assignments))
	for i := range first.Assignments {
		assert.Equal(t, first.Assignments[i].VehicleID, second.Assignments[i].VehicleID)
		assert.Equal(t, first.Assignments[i].IncidentNode, second.Assignments[i].IncidentNode)
		assert.Equal(t, first.Assignments[i].Path, second.Assignments[i].Path)
	}
}

func TestOptimizeRelaxationNeverHurts(t *testing.T) {
	// Tight capacities force a shared edge into conflict at relax 1.0; a
	// higher relaxation can only widen the feasible set.
	g := network.NewGraph()
	for id := int64(0); id < 3; id++ {
		g.AddNode(network.Node{ID: id})
	}
	for _, dir := range [][2]int64{{0, 1}, {1, 2}, {2, 1}, {1, 0}} {
		e, err := g.AddEdge(dir[0], dir[1], 1)
		require.NoError(t, err)
		e.CapacityKmh = 80
		e.TravelTimeMin = e.LengthKm / e.CapacityKmh * 60
	}
	eng := newTestEngine(t, Config{})
	incidents := map[int64]model.Severity{
		1: model.SeverityMedium,
		2: model.SeverityLight,
	}

	// Both routes must cross edge 0->1: 45+30 = 75 <= 80 fits at 1.0.
	tight, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	require.NoError(t, err)
	relaxed, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 2.0)
	require.NoError(t, err)
	assert.LessOrEqual(t, relaxed.TotalCost, tight.TotalCost+1e-9)
}

func TestOptimizeInfeasibleOnSaturatedEdge(t *testing.T) {
	// Shrink the shared edge below the combined required speeds.
	g := network.NewGraph()
	for id := int64(0); id < 3; id++ {
		g.AddNode(network.Node{ID: id})
	}
	for _, dir := range [][2]int64{{0, 1}, {1, 2}, {2, 1}, {1, 0}} {
		e, err := g.AddEdge(dir[0], dir[1], 1)
		require.NoError(t, err)
		e.CapacityKmh = 50
		e.TravelTimeMin = e.LengthKm / e.CapacityKmh * 60
	}
	eng := newTestEngine(t, Config{})
	incidents := map[int64]model.Severity{
		1: model.SeverityMedium,
		2: model.SeverityLight,
	}

	_, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	var ierr *InfeasibleError
	require.ErrorAs(t, err, &ierr)

	// The same instance solves once capacities are relaxed enough.
	res, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 2.0)
	require.NoError(t, err)
	assert.Len(t, res.Assignments, 2)
}

func TestOptimizeUnreachableIncident(t *testing.T) {
	g := diamond(t)
	g.AddNode(network.Node{ID: 9}) // isolated

	eng := newTestEngine(t, Config{})
	incidents := map[int64]model.Severity{9: model.SeverityLight}
	_, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	var ierr *InfeasibleError
	require.ErrorAs(t, err, &ierr)
}

func TestOptimizeRejectsBadInput(t *testing.T) {
	g := diamond(t)
	eng := newTestEngine(t, Config{})
	incidents := map[int64]model.Severity{1: model.SeverityMedium}

	_, err := eng.Optimize(context.Background(), g, testFleet(t), 0, nil, testSpeeds, 1.0)
	assert.Error(t, err, "no incidents")

	_, err = eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 0.5)
	assert.Error(t, err, "relaxation below 1")

	_, err = eng.Optimize(context.Background(), g, testFleet(t), 0, incidents,
		map[model.Severity]float64{model.SeverityLight: 30}, 1.0)
	assert.Error(t, err, "missing required speed")
}

func TestOptimizeOnGrid(t *testing.T) {
	g, err := network.Grid(4, 4, 1)
	require.NoError(t, err)
	for _, e := range g.Edges() {
		e.CapacityKmh = 120
		e.TravelTimeMin = e.LengthKm / e.CapacityKmh * 60
	}
	eng := newTestEngine(t, Config{})
	incidents := map[int64]model.Severity{
		3:  model.SeverityLight,
		12: model.SeverityMedium,
		15: model.SeverityCritical,
	}
	res, err := eng.Optimize(context.Background(), g, testFleet(t), 0, incidents, testSpeeds, 1.0)
	require.NoError(t, err)
	require.Len(t, res.Assignments, 3)
	for _, a := range res.Assignments {
		// On a unit grid the shortest route matches the Manhattan distance.
		row, col := a.IncidentNode/4, a.IncidentNode%4
		assert.InDelta(t, float64(row+col), a.DistanceKm, 1e-9)
		assert.False(t, math.IsNaN(a.TimeMin))
	}
}
