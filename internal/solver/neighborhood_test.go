package solver

import (
	"reflect"
	"testing"
)

func TestVonNeumannRadiusOneIs3DUnitBall(t *testing.T) {
	finder, err := NewNeighborhoodFinder(VonNeumann, Scan, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points := finder.Neighbors([]int{0, 0, 0}, false)
	expected := [][]int{
		{-1, 0, 0},
		{0, -1, 0},
		{0, 0, -1},
		{0, 0, 1},
		{0, 1, 0},
		{1, 0, 0},
	}
	if !reflect.DeepEqual(points, expected) {
		t.Fatalf("von Neumann radius-1 neighborhood = %v, expected %v", points, expected)
	}
}

func TestMooreRadiusOneIn2D(t *testing.T) {
	finder, err := NewNeighborhoodFinder(Moore, Scan, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points := finder.Neighbors([]int{5, 5}, false)
	if len(points) != 8 {
		t.Fatalf("Moore radius-1 neighborhood has %d points, expected 8", len(points))
	}
}

func TestIncludeCenter(t *testing.T) {
	finder, _ := NewNeighborhoodFinder(VonNeumann, Scan, 1)

	without := finder.Neighbors([]int{2, 3}, false)
	with := finder.Neighbors([]int{2, 3}, true)

	if len(with) != len(without)+1 {
		t.Fatalf("include-center size %d, exclude-center %d, expected a difference of 1", len(with), len(without))
	}

	found := false
	for _, p := range with {
		if p[0] == 2 && p[1] == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("center (2,3) missing from include-center result")
	}
	for _, p := range without {
		if p[0] == 2 && p[1] == 3 {
			t.Fatalf("center (2,3) present in exclude-center result")
		}
	}
}

func TestScanAndBFSAgree(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		radius int
		center []int
	}{
		{"von neumann r=2 3d", VonNeumann, 2, []int{0, 0, 0}},
		{"von neumann r=3 2d", VonNeumann, 3, []int{-4, 7}},
		{"moore r=2 2d", Moore, 2, []int{1, 1}},
		{"moore r=1 4d", Moore, 1, []int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scan, err := NewNeighborhoodFinder(tt.metric, Scan, tt.radius)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			bfs, err := NewNeighborhoodFinder(tt.metric, BFS, tt.radius)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			a := scan.Neighbors(tt.center, false)
			b := bfs.Neighbors(tt.center, false)
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("scan and BFS disagree:\nscan: %v\nbfs:  %v", a, b)
			}

			a = scan.Neighbors(tt.center, true)
			b = bfs.Neighbors(tt.center, true)
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("scan and BFS disagree with center included")
			}
		})
	}
}

func TestVonNeumannCounts(t *testing.T) {
	// |B1(r)| in 2D = 2r^2 + 2r + 1, so excluding the center: 2r^2 + 2r.
	for r := 1; r <= 4; r++ {
		finder, _ := NewNeighborhoodFinder(VonNeumann, Scan, r)
		points := finder.Neighbors([]int{0, 0}, false)
		expected := 2*r*r + 2*r
		if len(points) != expected {
			t.Fatalf("radius %d: %d points, expected %d", r, len(points), expected)
		}
	}
}

func TestNeighborhoodFinderValidation(t *testing.T) {
	if _, err := NewNeighborhoodFinder(VonNeumann, Scan, 0); err == nil {
		t.Fatalf("expected error for zero radius")
	}
	if _, err := NewNeighborhoodFinder(Metric(99), Scan, 1); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
	if _, err := NewNeighborhoodFinder(Moore, Traversal(99), 1); err == nil {
		t.Fatalf("expected error for unknown traversal")
	}
}
