package solver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Metric selects the lattice distance bounding a neighborhood.
type Metric int

const (
	// VonNeumann bounds neighborhoods by Manhattan (L1) distance.
	VonNeumann Metric = iota
	// Moore bounds neighborhoods by Chebyshev (L-infinity) distance.
	Moore
)

func (m Metric) String() string {
	switch m {
	case VonNeumann:
		return "von-neumann"
	case Moore:
		return "moore"
	default:
		return "unknown"
	}
}

// Traversal selects how the neighborhood is enumerated. Both traversals
// produce identical point sets; BFS exists for memory efficiency at large
// radii where the bounding box is mostly outside the ball.
type Traversal int

const (
	// Scan enumerates the bounding box directly and filters by distance.
	Scan Traversal = iota
	// BFS expands breadth-first from the center, visiting only in-ball points.
	BFS
)

// NeighborhoodFinder enumerates the lattice points within a fixed radius
// of a center under the configured metric. The returned set excludes the
// center unless asked for; callers filter to feasible points before
// evaluating.
type NeighborhoodFinder struct {
	metric    Metric
	traversal Traversal
	radius    int
}

// NewNeighborhoodFinder creates a finder.
func NewNeighborhoodFinder(metric Metric, traversal Traversal, radius int) (*NeighborhoodFinder, error) {
	if metric != VonNeumann && metric != Moore {
		return nil, fmt.Errorf("unknown neighborhood metric %d", metric)
	}
	if traversal != Scan && traversal != BFS {
		return nil, fmt.Errorf("unknown neighborhood traversal %d", traversal)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("neighborhood radius must be positive, got %d", radius)
	}
	return &NeighborhoodFinder{metric: metric, traversal: traversal, radius: radius}, nil
}

// Radius returns the configured radius.
func (f *NeighborhoodFinder) Radius() int {
	return f.radius
}

// Name identifies the finder in logs.
func (f *NeighborhoodFinder) Name() string {
	return f.metric.String()
}

// Neighbors enumerates the neighborhood of the center. The result is in
// lexicographic order regardless of traversal, so scan and BFS agree
// point-for-point.
func (f *NeighborhoodFinder) Neighbors(center []int, includeCenter bool) [][]int {
	var points [][]int
	switch f.traversal {
	case BFS:
		points = f.bfs(center, includeCenter)
	default:
		points = f.scan(center, includeCenter)
	}
	sort.Slice(points, func(i, j int) bool {
		return lessLattice(points[i], points[j])
	})
	return points
}

// scan walks the full bounding box and keeps in-ball points.
func (f *NeighborhoodFinder) scan(center []int, includeCenter bool) [][]int {
	d := len(center)
	var points [][]int
	offset := make([]int, d)

	var walk func(dim int)
	walk = func(dim int) {
		if dim == d {
			if !f.inBall(offset) {
				return
			}
			if !includeCenter && isZeroOffset(offset) {
				return
			}
			point := make([]int, d)
			for i := range point {
				point[i] = center[i] + offset[i]
			}
			points = append(points, point)
			return
		}
		for v := -f.radius; v <= f.radius; v++ {
			offset[dim] = v
			walk(dim + 1)
		}
		offset[dim] = 0
	}
	walk(0)
	return points
}

// bfs expands unit steps from the center, never leaving the ball. Both
// balls are connected under axis-aligned unit steps, so this reaches every
// in-ball point.
func (f *NeighborhoodFinder) bfs(center []int, includeCenter bool) [][]int {
	d := len(center)
	zero := make([]int, d)

	visited := map[string]bool{latticeKey(zero): true}
	queue := [][]int{zero}
	var points [][]int

	if includeCenter {
		points = append(points, append([]int(nil), center...))
	}

	for len(queue) > 0 {
		offset := queue[0]
		queue = queue[1:]

		for dim := 0; dim < d; dim++ {
			for _, step := range []int{-1, 1} {
				next := append([]int(nil), offset...)
				next[dim] += step
				if !f.inBall(next) {
					continue
				}
				key := latticeKey(next)
				if visited[key] {
					continue
				}
				visited[key] = true
				queue = append(queue, next)

				point := make([]int, d)
				for i := range point {
					point[i] = center[i] + next[i]
				}
				points = append(points, point)
			}
		}
	}
	return points
}

// inBall checks the metric distance of an offset against the radius.
func (f *NeighborhoodFinder) inBall(offset []int) bool {
	switch f.metric {
	case VonNeumann:
		sum := 0
		for _, v := range offset {
			if v < 0 {
				v = -v
			}
			sum += v
		}
		return sum <= f.radius
	default: // Moore
		for _, v := range offset {
			if v < 0 {
				v = -v
			}
			if v > f.radius {
				return false
			}
		}
		return true
	}
}

func isZeroOffset(offset []int) bool {
	for _, v := range offset {
		if v != 0 {
			return false
		}
	}
	return true
}

func latticeKey(point []int) string {
	var b strings.Builder
	for i, v := range point {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func lessLattice(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
