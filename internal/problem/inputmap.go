package problem

import (
	"strconv"
	"strings"
)

// InputMap is an immutable mapping from input name to value, derived
// deterministically from a raw vector via the problem definition. Its
// canonical Key makes it usable as a cache key, so it must never be
// mutated after construction.
type InputMap struct {
	names  []string
	values []float64
	key    string
}

func newInputMap(names []string, values []float64) InputMap {
	n := append([]string(nil), names...)
	v := append([]float64(nil), values...)

	var b strings.Builder
	for i := range n {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(n[i])
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(v[i], 'g', -1, 64))
	}

	return InputMap{names: n, values: v, key: b.String()}
}

// Len returns the number of inputs.
func (m InputMap) Len() int {
	return len(m.names)
}

// Names returns a copy of the input names in definition order.
func (m InputMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Vector returns a copy of the input values in definition order.
func (m InputMap) Vector() []float64 {
	return append([]float64(nil), m.values...)
}

// Value returns the value of the named input.
func (m InputMap) Value(name string) (float64, bool) {
	for i, n := range m.names {
		if n == name {
			return m.values[i], true
		}
	}
	return 0, false
}

// Key returns the canonical string form used for caching and result
// correspondence.
func (m InputMap) Key() string {
	return m.key
}

// Equal reports whether two input maps carry the same names and values.
func (m InputMap) Equal(other InputMap) bool {
	return m.key == other.key
}

// IsZero reports whether the map was never initialized.
func (m InputMap) IsZero() bool {
	return len(m.names) == 0
}

func (m InputMap) String() string {
	return "{" + m.key + "}"
}
