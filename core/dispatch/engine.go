package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ambuflow/ambuflow/core/logger"
	"github.com/ambuflow/ambuflow/core/metrics"
	"github.com/ambuflow/ambuflow/core/milp"
	"github.com/ambuflow/ambuflow/core/model"
	"github.com/ambuflow/ambuflow/core/network"
)

// Engine runs optimization rounds. It is safe to reuse across rounds as long
// as the caller serializes writes to the network graph; the engine itself
// only reads it.
type Engine struct {
	cfg    Config
	solver milp.Solver
	log    logger.Logger
	sink   metrics.Sink
}

// NewEngine builds an engine. A nil solver defaults to the branch-and-bound
// backend; nil logger and sink default to no-ops.
func NewEngine(cfg Config, solver milp.Solver, log logger.Logger, sink metrics.Sink) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch config: %w", err)
	}
	if solver == nil {
		solver = milp.NewBranchAndBound()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{cfg: cfg, solver: solver, log: log, sink: sink}, nil
}

// Optimize runs one dispatch round: it builds the multi-commodity flow MILP
// for the given fleet, incidents and prepared network, solves it, and
// reconstructs per-vehicle routes. relaxation zero falls back to the
// configured default. Every failure is terminal for the round; nothing
// partial is returned.
func (e *Engine) Optimize(
	ctx context.Context,
	g *network.Graph,
	fleet []model.Vehicle,
	base int64,
	incidentsByNode map[int64]model.Severity,
	requiredSpeeds map[model.Severity]float64,
	relaxation float64,
) (*Result, error) {
	if relaxation == 0 {
		relaxation = e.cfg.RelaxationFactor
	}
	if relaxation < 1 {
		return nil, fmt.Errorf("relaxation factor must be >= 1.0, got %v", relaxation)
	}
	if len(incidentsByNode) == 0 {
		return nil, fmt.Errorf("no incidents to dispatch to")
	}

	incidents, err := incidentList(incidentsByNode, requiredSpeeds)
	if err != nil {
		return nil, err
	}

	bm, err := buildModel(g, fleet, base, incidents, e.cfg, relaxation)
	if err != nil {
		return nil, err
	}
	e.log.Debugw("dispatch model built", map[string]any{
		"pairs":       len(bm.pairs),
		"variables":   bm.model.NumVars(),
		"constraints": bm.model.NumConstraints(),
		"big_m":       bm.bigM,
	})

	opts := milp.DefaultOptions()
	opts.MaxDuration = time.Duration(e.cfg.SolveTimeoutSeconds) * time.Second
	opts.MaxNodes = e.cfg.MaxNodes
	sol, err := e.solver.Solve(ctx, bm.model, opts)
	if err != nil {
		return nil, &SolverError{Err: err}
	}
	switch sol.Status {
	case milp.StatusOptimal:
	case milp.StatusFeasible:
		e.log.Warnf("solver stopped on a limit after %d nodes; reporting best found solution", sol.Nodes)
	default:
		return nil, &InfeasibleError{Status: sol.Status}
	}

	assignments, err := extractAssignments(bm, sol, base)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].Priority > assignments[j].Priority
	})

	res := &Result{
		RoundID:     uuid.NewString(),
		BaseNode:    base,
		Status:      sol.Status.String(),
		TotalCost:   sol.Objective,
		Assignments: assignments,
		SolveTime:   sol.Runtime,
		SolverNodes: sol.Nodes,
	}
	e.record(res, len(incidents))
	e.log.Infof("round %s: %d assignments, total cost %.2f (%s, %s)",
		res.RoundID, len(res.Assignments), res.TotalCost, res.Status, res.SolveTime)
	return res, nil
}

func incidentList(byNode map[int64]model.Severity, speeds map[model.Severity]float64) ([]model.Incident, error) {
	nodes := make([]int64, 0, len(byNode))
	for node := range byNode {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	incidents := make([]model.Incident, 0, len(nodes))
	for _, node := range nodes {
		sev := byNode[node]
		speed, ok := speeds[sev]
		if !ok {
			return nil, fmt.Errorf("no required speed for severity %q", sev)
		}
		inc, err := model.NewIncident(node, sev, speed)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, nil
}

func (e *Engine) record(res *Result, incidents int) {
	now := time.Now()
	round := metrics.RoundRecord{
		RoundID:     res.RoundID,
		Status:      res.Status,
		SolveTime:   res.SolveTime,
		Incidents:   incidents,
		Assignments: len(res.Assignments),
		TotalCost:   res.TotalCost,
	}
	if err := e.sink.RecordRound(round); err != nil {
		e.log.Errorf("record round metrics: %v", err)
	}
	recs := make([]metrics.AssignmentRecord, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		recs = append(recs, metrics.AssignmentRecord{
			RoundID:       res.RoundID,
			VehicleID:     a.VehicleID,
			VehicleClass:  string(a.VehicleClass),
			Severity:      string(a.Severity),
			Priority:      a.Priority,
			TimeMin:       a.TimeMin,
			DistanceKm:    a.DistanceKm,
			RequiredSpeed: a.RequiredSpeedKmh,
			Time:          now,
		})
	}
	if err := e.sink.RecordAssignments(recs); err != nil {
		e.log.Errorf("record assignment metrics: %v", err)
	}
}
