// Package cloud models phonon cloud configurations: occupation matrices of
// shape (boson types x sites), the legality filter that keeps only tight,
// truncation-respecting clouds, and the enumerator that generates every legal
// configuration of a model grouped by phonon count.
package cloud

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is an occupation-count matrix with one row per boson type and one
// column per cloud site. Config values are immutable: every operation that
// changes occupation returns a new Config.
type Config struct {
	types int
	width int
	occ   []int // row-major, occ[t*width+s]
}

// Empty returns the zero-width configuration with the given number of
// boson types. It stands for the bare electron (no phonon cloud).
func Empty(types int) Config {
	return Config{types: types}
}

// FromFlat reshapes a flat occupation vector into a types x (len/types)
// matrix, filling row by row.
func FromFlat(types int, flat []int) (Config, error) {
	if types < 1 {
		return Config{}, fmt.Errorf("cloud: types must be >= 1, got %d", types)
	}
	if len(flat)%types != 0 {
		return Config{}, fmt.Errorf("cloud: cannot reshape %d entries into %d rows", len(flat), types)
	}
	occ := make([]int, len(flat))
	copy(occ, flat)
	return Config{types: types, width: len(flat) / types, occ: occ}, nil
}

// FromRows builds a configuration from one occupation row per boson type.
func FromRows(rows [][]int) (Config, error) {
	if len(rows) == 0 {
		return Config{}, fmt.Errorf("cloud: no rows")
	}
	width := len(rows[0])
	flat := make([]int, 0, len(rows)*width)
	for i, r := range rows {
		if len(r) != width {
			return Config{}, fmt.Errorf("cloud: row %d has width %d, want %d", i, len(r), width)
		}
		flat = append(flat, r...)
	}
	return FromFlat(len(rows), flat)
}

// Types returns the number of boson types (rows).
func (c Config) Types() int { return c.types }

// Width returns the number of cloud sites (columns).
func (c Config) Width() int { return c.width }

// At returns the occupation of boson type t at site s.
func (c Config) At(t, s int) int { return c.occ[t*c.width+s] }

// Total returns the total phonon count.
func (c Config) Total() int {
	total := 0
	for _, n := range c.occ {
		total += n
	}
	return total
}

// TypeTotal returns the phonon count of boson type t.
func (c Config) TypeTotal(t int) int {
	total := 0
	for s := 0; s < c.width; s++ {
		total += c.At(t, s)
	}
	return total
}

// ColumnTotal returns the phonon count at site s summed over types.
func (c Config) ColumnTotal(s int) int {
	total := 0
	for t := 0; t < c.types; t++ {
		total += c.At(t, s)
	}
	return total
}

// Span returns the distance between the outermost occupied sites of boson
// type t plus one, or 0 when type t is absent.
func (c Config) Span(t int) int {
	first, last := -1, -1
	for s := 0; s < c.width; s++ {
		if c.At(t, s) > 0 {
			if first < 0 {
				first = s
			}
			last = s
		}
	}
	if first < 0 {
		return 0
	}
	return last - first + 1
}

// IsEmpty reports whether the configuration carries no phonons.
func (c Config) IsEmpty() bool {
	return c.Total() == 0
}

// Rows returns a copy of the matrix as one slice per boson type.
func (c Config) Rows() [][]int {
	rows := make([][]int, c.types)
	for t := range rows {
		rows[t] = make([]int, c.width)
		copy(rows[t], c.occ[t*c.width:(t+1)*c.width])
	}
	return rows
}

// Equal reports whether c and o have identical shape and occupations.
func (c Config) Equal(o Config) bool {
	if c.types != o.types || c.width != o.width {
		return false
	}
	for i := range c.occ {
		if c.occ[i] != o.occ[i] {
			return false
		}
	}
	return true
}

// ID returns the printable identity of the configuration, e.g. "(1,0,2)"
// for one boson type or "(1,0|0,1)" for two. The empty cloud is "()".
func (c Config) ID() string {
	var b strings.Builder
	b.WriteByte('(')
	for t := 0; t < c.types; t++ {
		if t > 0 {
			b.WriteByte('|')
		}
		for s := 0; s < c.width; s++ {
			if s > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(c.At(t, s)))
		}
	}
	b.WriteByte(')')
	return b.String()
}

// String implements fmt.Stringer.
func (c Config) String() string { return c.ID() }

// Add returns the configuration with one phonon of type t added at site p.
// Sites outside [0, width) extend the cloud; the second result is the
// position of the new left edge relative to the old one (min(p, 0)).
func (c Config) Add(t, p int) (Config, int) {
	left := min(p, 0)
	width := max(c.width, p+1) - left
	out := Config{types: c.types, width: width, occ: make([]int, c.types*width)}
	for tt := 0; tt < c.types; tt++ {
		for s := 0; s < c.width; s++ {
			out.occ[tt*width+s-left] = c.At(tt, s)
		}
	}
	out.occ[t*width+p-left]++
	return out, left
}

// Remove returns the configuration with one phonon of type t taken from
// site p, trimmed of empty edge columns. The second result is the number of
// leading columns trimmed. Removing from an empty site is a programming
// error and panics.
func (c Config) Remove(t, p int) (Config, int) {
	if c.At(t, p) == 0 {
		panic(fmt.Sprintf("cloud: remove from empty site %d of type %d in %s", p, t, c.ID()))
	}
	out := c.clone()
	out.occ[t*c.width+p]--
	return out.Trim()
}

// Trim drops empty leading and trailing columns. It returns the trimmed
// configuration and the number of leading columns dropped. Trimming an
// empty cloud yields Empty.
func (c Config) Trim() (Config, int) {
	lo, hi := 0, c.width-1
	for lo <= hi && c.ColumnTotal(lo) == 0 {
		lo++
	}
	for hi >= lo && c.ColumnTotal(hi) == 0 {
		hi--
	}
	if lo > hi {
		return Empty(c.types), lo
	}
	width := hi - lo + 1
	out := Config{types: c.types, width: width, occ: make([]int, c.types*width)}
	for t := 0; t < c.types; t++ {
		copy(out.occ[t*width:(t+1)*width], c.occ[t*c.width+lo:t*c.width+hi+1])
	}
	return out, lo
}

func (c Config) clone() Config {
	occ := make([]int, len(c.occ))
	copy(occ, c.occ)
	return Config{types: c.types, width: c.width, occ: occ}
}
