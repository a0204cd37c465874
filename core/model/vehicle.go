package model

import "fmt"

// Cost coefficients applied to vehicle resources when deriving the
// operational cost.
const (
	CoefStaff     = 10
	CoefEquipment = 5
	CoefSupplies  = 3
)

// Operational cost thresholds mapping cost to a vehicle class.
const (
	costCritical = 200
	costMedium   = 100
	costLight    = 50
)

// Vehicle represents an emergency vehicle stationed at the base. It is
// immutable once constructed: operational cost and class are derived from the
// resource quantities at construction time and never mutated. Fleet edits
// replace vehicles, they do not modify them.
type Vehicle struct {
	ID        string
	Staff     int
	Equipment int
	Supplies  int

	// OperationalCost is the weighted linear combination of the resource
	// quantities using the fixed coefficients above.
	OperationalCost float64
	// Class is assigned by thresholding the operational cost.
	Class Class
}

// NewVehicle builds a vehicle and derives its operational cost and class.
func NewVehicle(id string, staff, equipment, supplies int) (Vehicle, error) {
	if id == "" {
		return Vehicle{}, fmt.Errorf("vehicle id is required")
	}
	if staff < 0 || equipment < 0 || supplies < 0 {
		return Vehicle{}, fmt.Errorf("vehicle %s: resource quantities must be non-negative", id)
	}
	cost := float64(staff*CoefStaff + equipment*CoefEquipment + supplies*CoefSupplies)
	return Vehicle{
		ID:              id,
		Staff:           staff,
		Equipment:       equipment,
		Supplies:        supplies,
		OperationalCost: cost,
		Class:           classify(cost),
	}, nil
}

func classify(cost float64) Class {
	switch {
	case cost >= costCritical:
		return ClassCritical
	case cost >= costMedium:
		return ClassMedium
	case cost >= costLight:
		return ClassLight
	}
	return ClassUnknown
}

// CanServe reports whether the vehicle is compatible with an incident of the
// given severity: its class rank must be at least the severity rank. Vehicles
// of unknown class serve nothing.
func (v Vehicle) CanServe(s Severity) bool {
	if !s.Valid() {
		return false
	}
	return v.Class.Rank() >= s.Priority()
}
