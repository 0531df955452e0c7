package equation

import (
	"strconv"
	"strings"
)

// Delta is a concrete argument value: the relative offset that
// distinguishes otherwise identical equations of one cloud shape. It has
// one component per spatial dimension. Components are integers or
// half-integers and compare exactly.
type Delta []float64

// Zero returns the zero delta of the given dimension.
func Zero(dim int) Delta {
	return make(Delta, dim)
}

// Key returns the printable form of d used inside identities, e.g. "0.5"
// or "1,-2".
func (d Delta) Key() string {
	parts := make([]string, len(d))
	for i, v := range d {
		if v == 0 {
			v = 0 // normalize -0
		}
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Add returns d + o component-wise. A nil receiver or argument is treated
// as zero.
func (d Delta) Add(o Delta) Delta {
	n := max(len(d), len(o))
	out := make(Delta, n)
	for i := range out {
		if i < len(d) {
			out[i] += d[i]
		}
		if i < len(o) {
			out[i] += o[i]
		}
	}
	return out
}

// Equal reports exact component-wise equality.
func (d Delta) Equal(o Delta) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if d[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of d, or nil for nil.
func (d Delta) Clone() Delta {
	if d == nil {
		return nil
	}
	out := make(Delta, len(d))
	copy(out, d)
	return out
}
