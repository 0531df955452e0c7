// Package model describes the lattice electron-boson model whose equation
// hierarchy is built: per-boson-type truncations, the coupling terms that
// connect equations, and the thermofield doubling applied at finite
// temperature. A Model is primed once from Params and treated as read-only
// afterwards.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Model is a primed, immutable model. Slices are indexed by boson type;
// at finite temperature every physical type is followed by its fictitious
// thermofield partner.
type Model struct {
	Labels    []string       // display label per boson type
	Couplings []CouplingType // coupling type per boson type
	Extent    []int          // maximum cloud span per boson type (M)
	Number    []int          // maximum boson count per type (N)
	Omega     []float64      // boson frequency per type; negative for fictitious types

	AbsoluteExtent int // maximum cloud width over all types
	MaxPerSite     int // per-site, per-type occupation cap; 0 means uncapped
	Dimension      int

	Hopping     float64
	Broadening  float64
	Temperature float64

	Terms []Term
}

// New validates p and primes it into a Model.
func New(p Params) (*Model, error) {
	if errs := Validate(p); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i := range errs {
			joined[i] = &errs[i]
		}
		return nil, errors.Join(joined...)
	}

	n := len(p.Models)
	m := &Model{
		AbsoluteExtent: p.AbsoluteExtent,
		MaxPerSite:     p.MaxBosonsPerSite,
		Dimension:      p.Dimension,
		Hopping:        p.Hopping,
		Broadening:     p.Broadening,
		Temperature:    p.Temperature,
	}
	if m.Dimension == 0 {
		m.Dimension = 1
	}
	if m.AbsoluteExtent == 0 {
		m.AbsoluteExtent = p.MExtent[0]
	}

	numbers := p.NBosons
	if p.MaxBosonsPerSite > 0 {
		numbers = make([]int, n)
		for i, me := range p.MExtent {
			numbers[i] = p.MaxBosonsPerSite * n * me
		}
	}

	lams, direct := p.couplings()
	thermal := p.Temperature > 0
	bt := 0
	for i, label := range p.Models {
		c := CouplingType(label)
		g, err := CouplingMagnitude(c, p.Hopping, p.Omega[i], lams[i], direct)
		if err != nil {
			return nil, err
		}
		v, vTilde := thermofieldFactors(p.Temperature, p.Omega[i])

		terms, err := CouplingTerms(c, g*v, bt)
		if err != nil {
			return nil, err
		}
		m.Terms = append(m.Terms, terms...)
		m.Labels = append(m.Labels, label)
		m.Couplings = append(m.Couplings, c)
		m.Extent = append(m.Extent, p.MExtent[i])
		m.Number = append(m.Number, numbers[i])
		m.Omega = append(m.Omega, p.Omega[i])
		bt++

		if !thermal {
			continue
		}
		terms, err = CouplingTerms(c, g*vTilde, bt)
		if err != nil {
			return nil, err
		}
		m.Terms = append(m.Terms, terms...)
		m.Labels = append(m.Labels, "fict("+label+")")
		m.Couplings = append(m.Couplings, c)
		m.Extent = append(m.Extent, pick(p.MTFD, i, p.MExtent[i]))
		m.Number = append(m.Number, pick(p.NTFD, i, numbers[i]))
		m.Omega = append(m.Omega, -p.Omega[i])
		bt++
	}

	return m, nil
}

// thermofieldFactors returns the prefactors of the physical and fictitious
// coupling copies. At zero temperature the fictitious copy vanishes.
func thermofieldFactors(temperature, omega float64) (float64, float64) {
	if temperature == 0 {
		return 1, 0
	}
	beta := 1.0 / temperature
	theta := math.Atanh(math.Exp(-beta * omega / 2.0))
	return math.Cosh(theta), math.Sinh(theta)
}

func pick(vals []int, i, fallback int) int {
	if len(vals) == 0 {
		return fallback
	}
	return vals[i]
}

// NTypes returns the number of distinct boson types, including
// thermofield partners.
func (m *Model) NTypes() int {
	return len(m.Extent)
}

// MaxPhonons returns the largest total phonon count any configuration may
// carry: the sum of per-type counts.
func (m *Model) MaxPhonons() int {
	total := 0
	for _, n := range m.Number {
		total += n
	}
	return total
}

// TruncationKey identifies the truncation parameters that fully determine
// the legal configuration space. Models with equal keys enumerate the same
// configurations regardless of their couplings.
func (m *Model) TruncationKey() string {
	return fmt.Sprintf("d=%d;A=%d;cap=%d;M=%v;N=%v", m.Dimension, m.AbsoluteExtent, m.MaxPerSite, m.Extent, m.Number)
}

// Fingerprint returns a stable hex digest over every primed field.
func (m *Model) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%v|%v|%g|%g|%g|%g|", m.TruncationKey(), m.Labels, m.Couplings, m.Omega, m.Hopping, m.Broadening, m.Temperature)
	for _, t := range m.Terms {
		fmt.Fprintf(h, "%g,%g,%s,%g,%d;", t.X, t.Y, t.Dagger, t.G, t.BosonType)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// String summarizes the model on one line.
func (m *Model) String() string {
	return fmt.Sprintf("%s M=%v N=%v A=%d T=%g", strings.Join(m.Labels, ","), m.Extent, m.Number, m.AbsoluteExtent, m.Temperature)
}
