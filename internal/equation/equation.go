// Package equation builds the individual equations of a Green's function
// cluster expansion. A generalized Equation is derived from one legal phonon
// cloud and lists every unknown its right-hand side references, together
// with the argument each reference requires. Binding a generalized equation
// to one concrete argument yields a Specific equation, one row of the
// eventual linear system.
package equation

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/ggce/internal/cloud"
	"github.com/papapumpkin/ggce/internal/model"
)

// ErrShapeMismatch is returned when a configuration's boson types do not
// match the model's.
var ErrShapeMismatch = errors.New("configuration does not match model")

// Requirement lists the arguments one equation needs of the unknowns with a
// given configuration identity, in the order they were encountered.
type Requirement struct {
	ID     string
	Deltas []Delta
}

// Equation is a generalized equation. It is immutable after construction.
type Equation struct {
	index          IndexTerm
	terms          []Term
	frequencyShift float64
	phonons        int
	requirements   []Requirement
}

// FromConfig builds the generalized equation for cloud c. Annihilation terms
// remove one boson from every occupied site of the term's type; creation
// terms add one at every site that keeps the cloud legal.
func FromConfig(c cloud.Config, m *model.Model) (*Equation, error) {
	if c.Types() != m.NTypes() {
		return nil, fmt.Errorf("%w: %d boson types, model has %d", ErrShapeMismatch, c.Types(), m.NTypes())
	}
	if c.IsEmpty() {
		return nil, fmt.Errorf("%w: empty cloud %s", ErrShapeMismatch, c.ID())
	}

	lim := cloud.LimitsOf(m)
	dim := m.Dimension
	z := c.Width()
	a := m.AbsoluteExtent

	eq := &Equation{
		index:          IndexTerm{Kind: KindCloud, Config: c},
		frequencyShift: frequencyShift(c, m),
		phonons:        c.Total(),
	}
	for _, tm := range m.Terms {
		switch tm.Dagger {
		case model.Annihilate:
			for p := 0; p < z; p++ {
				occ := c.At(tm.BosonType, p)
				if occ == 0 {
					continue
				}
				target, shift := c.Remove(tm.BosonType, p)
				j := float64(p) - tm.Y
				t := Term{
					Kind:        KindCloud,
					Config:      target,
					FArg:        vec(dim, j+tm.X-float64(shift)),
					GArg:        vec(dim, -j),
					Coefficient: tm.G * float64(occ),
					Phase:       tm.X,
					Dagger:      tm.Dagger,
					BosonType:   tm.BosonType,
				}
				if target.IsEmpty() {
					t.Kind = KindGreen
					t.FArg = Zero(dim)
				}
				eq.add(t)
			}
		case model.Create:
			for p := z - a; p <= a-1; p++ {
				target, left := c.Add(tm.BosonType, p)
				if !lim.Legal(target) {
					continue
				}
				j := float64(p) - tm.Y
				eq.add(Term{
					Kind:        KindCloud,
					Config:      target,
					FArg:        vec(dim, j+tm.X-float64(left)),
					GArg:        vec(dim, -j),
					Coefficient: tm.G,
					Phase:       tm.X,
					Dagger:      tm.Dagger,
					BosonType:   tm.BosonType,
				})
			}
		}
	}
	return eq, nil
}

// Green builds the Green's function equation. Its right-hand side creates
// a single boson under the electron for every creation term; the free
// propagator is local.
func Green(m *model.Model) *Equation {
	types := m.NTypes()
	lim := cloud.LimitsOf(m)
	eq := &Equation{
		index: IndexTerm{Kind: KindGreen, Config: cloud.Empty(types)},
	}
	for _, tm := range m.Terms {
		if tm.Dagger != model.Create {
			continue
		}
		target, _ := cloud.Empty(types).Add(tm.BosonType, 0)
		if !lim.Legal(target) {
			continue
		}
		eq.add(Term{
			Kind:        KindCloud,
			Config:      target,
			FArg:        vec(m.Dimension, tm.X-tm.Y),
			Coefficient: tm.G,
			Phase:       tm.X,
			Dagger:      tm.Dagger,
			BosonType:   tm.BosonType,
		})
	}
	return eq
}

func (e *Equation) add(t Term) {
	e.terms = append(e.terms, t)
	id := t.ConfigID()
	for i := range e.requirements {
		if e.requirements[i].ID == id {
			e.requirements[i].Deltas = append(e.requirements[i].Deltas, t.FArg.Clone())
			return
		}
	}
	e.requirements = append(e.requirements, Requirement{ID: id, Deltas: []Delta{t.FArg.Clone()}})
}

func frequencyShift(c cloud.Config, m *model.Model) float64 {
	shift := 0.0
	for t := 0; t < c.Types(); t++ {
		shift += float64(c.TypeTotal(t)) * m.Omega[t]
	}
	return shift
}

// vec returns a delta whose first component is v. Only the first spatial
// dimension carries offsets.
func vec(dim int, v float64) Delta {
	d := Zero(max(dim, 1))
	d[0] = v
	return d
}

// ID returns the configuration identity of the equation: the key under
// which its required arguments are collected.
func (e *Equation) ID() string { return e.index.ConfigID() }

// Index returns the unbound index term.
func (e *Equation) Index() IndexTerm { return e.index }

// Phonons returns the number of phonons in the equation's cloud.
func (e *Equation) Phonons() int { return e.phonons }

// FrequencyShift returns the sum over boson types of count times frequency.
func (e *Equation) FrequencyShift() float64 { return e.frequencyShift }

// Terms returns a copy of the right-hand-side terms.
func (e *Equation) Terms() []Term {
	out := make([]Term, len(e.terms))
	copy(out, e.terms)
	return out
}

// Requirements returns, per referenced configuration identity, every
// argument this equation needs, duplicates included. Identities appear in
// the order their first reference was generated.
func (e *Equation) Requirements() []Requirement {
	out := make([]Requirement, len(e.requirements))
	for i, r := range e.requirements {
		deltas := make([]Delta, len(r.Deltas))
		for k, d := range r.Deltas {
			deltas[k] = d.Clone()
		}
		out[i] = Requirement{ID: r.ID, Deltas: deltas}
	}
	return out
}

// Bind returns the specific equation for argument d. The receiver is not
// modified.
func (e *Equation) Bind(d Delta) Specific {
	s := Specific{
		Index:          e.index,
		Terms:          make([]Term, len(e.terms)),
		Phonons:        e.phonons,
		FrequencyShift: e.frequencyShift,
		Delta:          d.Clone(),
	}
	if e.index.Kind == KindCloud {
		s.Index.FArg = d.Clone()
	}
	for i, t := range e.terms {
		s.Terms[i] = t.bind(d)
	}
	return s
}

// Specific is a generalized equation bound to one argument.
type Specific struct {
	Index          IndexTerm
	Terms          []Term
	Phonons        int
	FrequencyShift float64
	Delta          Delta
}

// ID returns the identity of the unknown the equation defines.
func (s Specific) ID() string { return s.Index.ID() }
