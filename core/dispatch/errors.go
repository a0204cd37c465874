package dispatch

import (
	"errors"
	"fmt"

	"github.com/ambuflow/ambuflow/core/milp"
)

// ErrNoCompatiblePairs means no vehicle in the fleet can serve any incident.
// It is raised before any solver invocation.
var ErrNoCompatiblePairs = errors.New("no compatible vehicle-incident pairs")

// InfeasibleError reports that the model admits no solution.
type InfeasibleError struct {
	Status milp.Status
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("dispatch model is %s", e.Status)
}

// SolverError wraps a backend failure.
type SolverError struct {
	Err error
}

func (e *SolverError) Error() string { return fmt.Sprintf("solver failed: %v", e.Err) }
func (e *SolverError) Unwrap() error { return e.Err }

// ReconstructionError means a selected edge-use set did not form a single
// simple base-to-incident path. It signals an internal invariant violation
// and is never downgraded to a truncated result.
type ReconstructionError struct {
	VehicleID    string
	IncidentNode int64
	Reason       string
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("path reconstruction for vehicle %s -> node %d: %s", e.VehicleID, e.IncidentNode, e.Reason)
}
