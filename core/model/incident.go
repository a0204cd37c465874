package model

import "fmt"

// Incident is an emergency at a network node. Exactly one vehicle must be
// dispatched to it from the base.
type Incident struct {
	// Node is the network node the incident is located at.
	Node int64
	// Severity of the emergency.
	Severity Severity
	// Priority is the ordinal rank of the severity, Critical=3 .. Light=1.
	Priority int
	// RequiredSpeed is the traversal speed in km/h demanded by the severity
	// class for the current round.
	RequiredSpeed float64
}

// NewIncident builds an incident, deriving the priority from the severity.
func NewIncident(node int64, severity Severity, requiredSpeed float64) (Incident, error) {
	if !severity.Valid() {
		return Incident{}, fmt.Errorf("incident at node %d: unknown severity %q", node, severity)
	}
	if requiredSpeed <= 0 {
		return Incident{}, fmt.Errorf("incident at node %d: required speed must be positive", node)
	}
	return Incident{
		Node:          node,
		Severity:      severity,
		Priority:      severity.Priority(),
		RequiredSpeed: requiredSpeed,
	}, nil
}
