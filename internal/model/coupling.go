package model

import (
	"fmt"
	"math"
)

// CouplingType labels an electron-boson coupling Hamiltonian.
type CouplingType string

const (
	// Holstein couples the electron density to a local boson displacement.
	Holstein CouplingType = "H"
	// EdwardsFermionBoson is the Edwards fermion-boson model; lambda is g.
	EdwardsFermionBoson CouplingType = "EFB"
	// SSH is the site Su-Schrieffer-Heeger (Peierls) coupling.
	SSH CouplingType = "SSH"
	// BondSSH places the boson on the bond between sites.
	BondSSH CouplingType = "bondSSH"
)

// Known reports whether c is a coupling type with defined terms.
func (c CouplingType) Known() bool {
	switch c {
	case Holstein, EdwardsFermionBoson, SSH, BondSSH:
		return true
	}
	return false
}

// Dagger distinguishes boson creation from annihilation in a coupling term.
type Dagger byte

const (
	Create     Dagger = '+'
	Annihilate Dagger = '-'
)

// String returns "+" or "-".
func (d Dagger) String() string { return string(d) }

// Term is a single coupling term of the interaction. X is the electron hop
// and Y the boson position, both relative to the electron before the term
// acts. Y is half-integer for bond bosons.
type Term struct {
	X         float64
	Y         float64
	Dagger    Dagger
	G         float64
	BosonType int
}

// CouplingMagnitude converts a dimensionless coupling lam into the prefactor
// g for the given coupling type. When direct is true lam already is g and is
// returned unchanged.
func CouplingMagnitude(c CouplingType, hopping, omega, lam float64, direct bool) (float64, error) {
	if direct {
		return lam, nil
	}
	switch c {
	case Holstein:
		return math.Sqrt(2.0 * hopping * omega * lam), nil
	case EdwardsFermionBoson:
		return lam, nil
	case SSH:
		return math.Sqrt(hopping * omega * lam / 2.0), nil
	case BondSSH:
		return math.Sqrt(hopping * omega * lam), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCoupling, string(c))
}

// CouplingTerms returns the interaction terms of coupling type c with
// prefactor g acting on boson type bt. Signs are relative to one another.
func CouplingTerms(c CouplingType, g float64, bt int) ([]Term, error) {
	switch c {
	case Holstein:
		return []Term{
			{X: 0, Y: 0, Dagger: Create, G: -g, BosonType: bt},
			{X: 0, Y: 0, Dagger: Annihilate, G: -g, BosonType: bt},
		}, nil
	case EdwardsFermionBoson:
		return []Term{
			{X: 1, Y: 1, Dagger: Create, G: g, BosonType: bt},
			{X: -1, Y: -1, Dagger: Create, G: g, BosonType: bt},
			{X: 1, Y: 0, Dagger: Annihilate, G: g, BosonType: bt},
			{X: -1, Y: 0, Dagger: Annihilate, G: g, BosonType: bt},
		}, nil
	case BondSSH:
		return []Term{
			{X: 1, Y: 0.5, Dagger: Create, G: g, BosonType: bt},
			{X: 1, Y: 0.5, Dagger: Annihilate, G: g, BosonType: bt},
			{X: -1, Y: -0.5, Dagger: Create, G: g, BosonType: bt},
			{X: -1, Y: -0.5, Dagger: Annihilate, G: g, BosonType: bt},
		}, nil
	case SSH:
		return []Term{
			{X: 1, Y: 0, Dagger: Create, G: g, BosonType: bt},
			{X: 1, Y: 0, Dagger: Annihilate, G: g, BosonType: bt},
			{X: 1, Y: 1, Dagger: Create, G: -g, BosonType: bt},
			{X: 1, Y: 1, Dagger: Annihilate, G: -g, BosonType: bt},
			{X: -1, Y: -1, Dagger: Create, G: g, BosonType: bt},
			{X: -1, Y: -1, Dagger: Annihilate, G: g, BosonType: bt},
			{X: -1, Y: 0, Dagger: Create, G: -g, BosonType: bt},
			{X: -1, Y: 0, Dagger: Annihilate, G: -g, BosonType: bt},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCoupling, string(c))
}
