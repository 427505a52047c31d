package solver

import "testing"

func TestLinearCooling(t *testing.T) {
	cooling, err := NewLinearCooling(100, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cooling.NextTemperature(0); got != 100 {
		t.Fatalf("NextTemperature(0) = %f, expected 100", got)
	}
	if got := cooling.NextTemperature(3); got != 70 {
		t.Fatalf("NextTemperature(3) = %f, expected 70", got)
	}
	// Never below the floor.
	if got := cooling.NextTemperature(100); got != 5 {
		t.Fatalf("NextTemperature(100) = %f, expected floor 5", got)
	}
}

func TestExponentialCooling(t *testing.T) {
	cooling, err := NewExponentialCooling(100, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cooling.NextTemperature(0); got != 100 {
		t.Fatalf("NextTemperature(0) = %f, expected 100", got)
	}
	if got := cooling.NextTemperature(2); got != 25 {
		t.Fatalf("NextTemperature(2) = %f, expected 25", got)
	}
}

func TestMonotonicCooling(t *testing.T) {
	linear, _ := NewLinearCooling(100, 2, 1)
	exponential, _ := NewExponentialCooling(100, 0.9)
	logarithmic, _ := NewLogarithmicCooling(100)

	schedules := []CoolingSchedule{linear, exponential, logarithmic}
	for _, s := range schedules {
		prev := s.NextTemperature(0)
		for it := 1; it < 200; it++ {
			got := s.NextTemperature(it)
			if got > prev {
				t.Fatalf("%s: NextTemperature(%d) = %f increased from %f", s.Name(), it, got, prev)
			}
			if got < 0 {
				t.Fatalf("%s: NextTemperature(%d) = %f went negative", s.Name(), it, got)
			}
			prev = got
		}
	}
}

func TestCoolingValidation(t *testing.T) {
	if _, err := NewLinearCooling(0, 1, 0); err == nil {
		t.Fatalf("expected error for zero initial temperature")
	}
	if _, err := NewLinearCooling(100, 0, 0); err == nil {
		t.Fatalf("expected error for zero step")
	}
	if _, err := NewLinearCooling(100, 1, 200); err == nil {
		t.Fatalf("expected error for floor above initial temperature")
	}
	if _, err := NewExponentialCooling(100, 1.0); err == nil {
		t.Fatalf("expected error for rate = 1")
	}
	if _, err := NewExponentialCooling(100, 0); err == nil {
		t.Fatalf("expected error for rate = 0")
	}
	if _, err := NewLogarithmicCooling(-1); err == nil {
		t.Fatalf("expected error for negative initial temperature")
	}
}
