package utils

import (
	"math"
	"testing"
)

func TestMin(t *testing.T) {
	tests := []struct {
		a, b, expected int
	}{
		{5, 10, 5},
		{10, 5, 5},
		{-5, 5, -5},
		{0, 0, 0},
	}

	for _, tt := range tests {
		result := Min(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("Min(%d, %d) = %d, expected %d", tt.a, tt.b, result, tt.expected)
		}
	}
}

func TestMax(t *testing.T) {
	tests := []struct {
		a, b, expected int
	}{
		{5, 10, 10},
		{10, 5, 10},
		{-5, 5, 5},
		{0, 0, 0},
	}

	for _, tt := range tests {
		result := Max(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("Max(%d, %d) = %d, expected %d", tt.a, tt.b, result, tt.expected)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}

	for _, tt := range tests {
		result := Clamp(tt.value, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.value, tt.min, tt.max, result, tt.expected)
		}
	}
}

func TestClampFloat64(t *testing.T) {
	tests := []struct {
		value, min, max, expected float64
	}{
		{5.5, 0, 10, 5.5},
		{-0.1, 0, 10, 0},
		{10.1, 0, 10, 10},
	}

	for _, tt := range tests {
		result := ClampFloat64(tt.value, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("ClampFloat64(%f, %f, %f) = %f, expected %f", tt.value, tt.min, tt.max, result, tt.expected)
		}
	}
}

func TestMeanVarianceStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	mean := Mean(values)
	if mean != 5.0 {
		t.Errorf("Mean = %f, expected 5.0", mean)
	}

	variance := Variance(values)
	expected := 32.0 / 7.0 // sample variance
	if math.Abs(variance-expected) > 1e-9 {
		t.Errorf("Variance = %f, expected %f", variance, expected)
	}

	stddev := StdDev(values)
	if math.Abs(stddev-math.Sqrt(expected)) > 1e-9 {
		t.Errorf("StdDev = %f, expected %f", stddev, math.Sqrt(expected))
	}
}

func TestMeanEmpty(t *testing.T) {
	if Mean(nil) != 0 {
		t.Errorf("Mean of empty slice should be 0")
	}
	if Variance([]float64{3.0}) != 0 {
		t.Errorf("Variance of a single sample should be 0")
	}
}

func TestSum(t *testing.T) {
	values := []float64{1.5, 2.5, 3.0}
	if Sum(values) != 7.0 {
		t.Errorf("Sum = %f, expected 7.0", Sum(values))
	}
}

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		value, step, expected float64
	}{
		{3.4, 1.0, 3.0},
		{3.6, 1.0, 4.0},
		{3.6, 0.5, 3.5},
		{3.6, 0, 3.6},
		{-2.4, 1.0, -2.0},
	}

	for _, tt := range tests {
		result := RoundToStep(tt.value, tt.step)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("RoundToStep(%f, %f) = %f, expected %f", tt.value, tt.step, result, tt.expected)
		}
	}
}

func TestFractionalPart(t *testing.T) {
	tests := []struct {
		value, expected float64
	}{
		{3.25, 0.25},
		{3.0, 0.0},
		{-1.75, 0.25},
	}

	for _, tt := range tests {
		result := FractionalPart(tt.value)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("FractionalPart(%f) = %f, expected %f", tt.value, result, tt.expected)
		}
	}
}
