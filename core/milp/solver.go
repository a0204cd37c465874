package milp

import (
	"context"
	"time"
)

// Status is the outcome of a solve.
type Status int

const (
	// StatusOptimal means the returned solution is proven optimal.
	StatusOptimal Status = iota
	// StatusFeasible means a limit stopped the search; the returned solution
	// is the best integer-feasible incumbent found, not proven optimal.
	StatusFeasible
	// StatusInfeasible means the constraints admit no integer solution.
	StatusInfeasible
	// StatusUnbounded means the objective can decrease without bound.
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	}
	return "unknown"
}

// Options bounds the solver's effort.
type Options struct {
	// MaxDuration limits wall-clock time; zero means no limit beyond the
	// context's deadline.
	MaxDuration time.Duration
	// MaxNodes limits the number of branch-and-bound nodes; zero means
	// unlimited.
	MaxNodes int
	// IntTol is the integrality tolerance; values within IntTol of an integer
	// are treated as integral. Defaults to 1e-6.
	IntTol float64
}

// DefaultOptions returns the options used when the caller passes the zero
// value.
func DefaultOptions() Options {
	return Options{IntTol: 1e-6}
}

// Solution carries the solver outcome. Values is indexed by Var.Index and is
// only populated for StatusOptimal and StatusFeasible.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
	Runtime   time.Duration
	Nodes     int
}

// HasValues reports whether variable values are available.
func (s Solution) HasValues() bool { return s.Values != nil }

// Value returns the solved value of v.
func (s Solution) Value(v *Var) float64 { return s.Values[v.Index()] }

// Solver is the narrow adapter contract the rest of the system depends on.
// Infeasible and unbounded outcomes are statuses, not errors; an error means
// the backend itself failed.
type Solver interface {
	Solve(ctx context.Context, m *Model, opts Options) (Solution, error)
}
