package model

// Severity classifies an incident by the urgency of the response it needs.
type Severity string

const (
	SeverityLight    Severity = "Light"
	SeverityMedium   Severity = "Medium"
	SeverityCritical Severity = "Critical"
)

// Severities lists the valid severities in ascending priority order.
var Severities = []Severity{SeverityLight, SeverityMedium, SeverityCritical}

// Priority returns the ordinal rank of the severity. Unknown severities
// rank 0 and are never satisfiable.
func (s Severity) Priority() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLight:
		return 1
	}
	return 0
}

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool { return s.Priority() > 0 }

// Class groups vehicles by capability, derived from operational cost.
type Class string

const (
	ClassUnknown  Class = "Unknown"
	ClassLight    Class = "Light"
	ClassMedium   Class = "Medium"
	ClassCritical Class = "Critical"
)

// Rank returns the capability rank of the class. ClassUnknown ranks 0 and
// cannot serve any incident.
func (c Class) Rank() int {
	switch c {
	case ClassCritical:
		return 3
	case ClassMedium:
		return 2
	case ClassLight:
		return 1
	}
	return 0
}
