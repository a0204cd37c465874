package model

import "testing"

func TestNewVehicleDerivedCostAndClass(t *testing.T) {
	cases := []struct {
		staff, equipment, supplies int
		cost                       float64
		class                      Class
	}{
		{3, 5, 10, 85, ClassLight},
		{5, 8, 15, 135, ClassMedium},
		{10, 15, 25, 250, ClassCritical},
		{1, 2, 4, 32, ClassUnknown},
		{2, 3, 5, 50, ClassLight},
		{0, 0, 0, 0, ClassUnknown},
	}
	for _, c := range cases {
		v, err := NewVehicle("v", c.staff, c.equipment, c.supplies)
		if err != nil {
			t.Fatalf("NewVehicle(%d,%d,%d): %v", c.staff, c.equipment, c.supplies, err)
		}
		if v.OperationalCost != c.cost {
			t.Fatalf("cost: expected %v got %v", c.cost, v.OperationalCost)
		}
		if v.Class != c.class {
			t.Fatalf("class: expected %s got %s", c.class, v.Class)
		}
	}
}

func TestNewVehicleValidation(t *testing.T) {
	if _, err := NewVehicle("", 1, 1, 1); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, err := NewVehicle("v", -1, 1, 1); err == nil {
		t.Fatalf("expected error for negative staff")
	}
}

func TestCompatibility(t *testing.T) {
	critical, _ := NewVehicle("c", 10, 15, 25) // 250 -> Critical
	medium, _ := NewVehicle("m", 5, 8, 15)     // 135 -> Medium
	light, _ := NewVehicle("l", 3, 5, 10)      // 85 -> Light
	unknown, _ := NewVehicle("u", 1, 2, 4)     // 32 -> Unknown

	cases := []struct {
		v    Vehicle
		s    Severity
		want bool
	}{
		{critical, SeverityCritical, true},
		{critical, SeverityLight, true},
		{medium, SeverityCritical, false},
		{medium, SeverityMedium, true},
		{medium, SeverityLight, true},
		{light, SeverityMedium, false},
		{light, SeverityLight, true},
		{unknown, SeverityLight, false},
		{light, Severity("Bogus"), false},
	}
	for _, c := range cases {
		if got := c.v.CanServe(c.s); got != c.want {
			t.Fatalf("%s serving %s: expected %v got %v", c.v.Class, c.s, c.want, got)
		}
	}
}

func TestSeverityPriority(t *testing.T) {
	if SeverityCritical.Priority() != 3 || SeverityMedium.Priority() != 2 || SeverityLight.Priority() != 1 {
		t.Fatalf("unexpected severity priorities")
	}
	if Severity("nope").Priority() != 0 {
		t.Fatalf("unknown severity must rank 0")
	}
}
