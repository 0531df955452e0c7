package hierarchy

import (
	"errors"
	"slices"

	"github.com/papapumpkin/ggce/internal/equation"
)

// ErrFrozen is returned when requirements are merged into a builder that
// has already been frozen.
var ErrFrozen = errors.New("argument builder is frozen")

// ArgumentBuilder accumulates, per configuration identity, every argument
// any equation in the system requires of it. Duplicates are kept until
// Freeze.
type ArgumentBuilder struct {
	keys   []string
	deltas map[string][]equation.Delta
	frozen bool
}

// NewArgumentBuilder creates an empty builder.
func NewArgumentBuilder() *ArgumentBuilder {
	return &ArgumentBuilder{deltas: make(map[string][]equation.Delta)}
}

// Merge appends reqs key-wise.
func (b *ArgumentBuilder) Merge(reqs []equation.Requirement) error {
	if b.frozen {
		return ErrFrozen
	}
	for _, r := range reqs {
		if _, ok := b.deltas[r.ID]; !ok {
			b.keys = append(b.keys, r.ID)
		}
		b.deltas[r.ID] = append(b.deltas[r.ID], r.Deltas...)
	}
	return nil
}

// Pending returns the number of accumulated arguments, duplicates included.
func (b *ArgumentBuilder) Pending() int {
	n := 0
	for _, ds := range b.deltas {
		n += len(ds)
	}
	return n
}

// Freeze deduplicates every identity's arguments by exact value, keeping
// first occurrences in order, and returns the read-only result. The builder
// rejects further merges.
func (b *ArgumentBuilder) Freeze() *Arguments {
	b.frozen = true
	a := &Arguments{
		keys:   slices.Clone(b.keys),
		deltas: make(map[string][]equation.Delta, len(b.deltas)),
	}
	for _, id := range b.keys {
		seen := make(map[string]bool)
		var uniq []equation.Delta
		for _, d := range b.deltas[id] {
			k := d.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			uniq = append(uniq, d.Clone())
		}
		a.deltas[id] = uniq
	}
	return a
}

// Arguments is the deduplicated master argument list.
type Arguments struct {
	keys   []string
	deltas map[string][]equation.Delta
}

// Keys returns the configuration identities in first-reference order.
func (a *Arguments) Keys() []string {
	return slices.Clone(a.keys)
}

// Deltas returns the distinct arguments required of id.
func (a *Arguments) Deltas(id string) []equation.Delta {
	src := a.deltas[id]
	out := make([]equation.Delta, len(src))
	for i, d := range src {
		out[i] = d.Clone()
	}
	return out
}

// Has reports whether any equation references id.
func (a *Arguments) Has(id string) bool {
	_, ok := a.deltas[id]
	return ok
}

// Len returns the number of distinct identities.
func (a *Arguments) Len() int { return len(a.keys) }

// Total returns the number of specific equations the closed system must
// contain: the sum of distinct argument counts over all identities.
func (a *Arguments) Total() int {
	n := 0
	for _, ds := range a.deltas {
		n += len(ds)
	}
	return n
}
