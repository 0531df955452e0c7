package hierarchy

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Basis maps specific equation identities to dense row indices. Exactly one
// of Global and Local is set.
type Basis struct {
	Global map[string]int         `json:"global,omitempty"`
	Local  map[int]map[string]int `json:"local,omitempty"`
}

// BuildBasis indexes the specific equations globally or per manifold.
func (s *System) BuildBasis(global bool) Basis {
	if global {
		return Basis{Global: s.GlobalBasis()}
	}
	return Basis{Local: s.LocalBasis()}
}

// GlobalBasis assigns indices 0..N-1 over all manifolds in ascending phonon
// order and generation order within each manifold.
func (s *System) GlobalBasis() map[string]int {
	basis := make(map[string]int, s.report.Equations)
	i := 0
	for _, nb := range s.PhononCounts() {
		for _, eq := range s.equations[nb] {
			basis[eq.ID()] = i
			i++
		}
	}
	return basis
}

// LocalBasis assigns indices 0..n-1 within each manifold.
func (s *System) LocalBasis() map[int]map[string]int {
	basis := make(map[int]map[string]int, len(s.equations))
	for nb, eqs := range s.equations {
		local := make(map[string]int, len(eqs))
		for i, eq := range eqs {
			local[eq.ID()] = i
		}
		basis[nb] = local
	}
	return basis
}

// Export is the serializable form of a built system handed to solvers and
// stores.
type Export struct {
	RunID       string `json:"run_id"`
	Model       string `json:"model"`
	Fingerprint string `json:"fingerprint"`
	Rows        []Row  `json:"rows"`
}

// Row is one specific equation.
type Row struct {
	ID             string  `json:"id"`
	Phonons        int     `json:"phonons"`
	Global         int     `json:"global"`
	Local          int     `json:"local"`
	FrequencyShift float64 `json:"frequency_shift"`
	Terms          []Ref   `json:"terms"`
}

// Ref is one right-hand-side reference of a row.
type Ref struct {
	ID          string    `json:"id"`
	Coefficient float64   `json:"coefficient"`
	Phase       float64   `json:"phase"`
	Propagator  []float64 `json:"propagator,omitempty"`
}

// Export flattens the system into rows in global basis order.
func (s *System) Export() Export {
	out := Export{
		RunID:       s.report.RunID,
		Model:       s.model.String(),
		Fingerprint: s.model.Fingerprint(),
		Rows:        make([]Row, 0, s.report.Equations),
	}
	global := 0
	for _, nb := range s.PhononCounts() {
		for local, eq := range s.equations[nb] {
			row := Row{
				ID:             eq.ID(),
				Phonons:        nb,
				Global:         global,
				Local:          local,
				FrequencyShift: eq.FrequencyShift,
				Terms:          make([]Ref, len(eq.Terms)),
			}
			for i, t := range eq.Terms {
				row.Terms[i] = Ref{
					ID:          t.ID(),
					Coefficient: t.Coefficient,
					Phase:       t.Phase,
					Propagator:  slices.Clone([]float64(t.GArg)),
				}
			}
			out.Rows = append(out.Rows, row)
			global++
		}
	}
	return out
}

// WriteJSON writes the export as indented JSON.
func (e Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("hierarchy: encode export: %w", err)
	}
	return nil
}

// Visualize writes the generalized or specific equations to w, manifolds
// in descending phonon order.
func (s *System) Visualize(w io.Writer, generalized, full bool) error {
	counts := s.PhononCounts()
	slices.Reverse(counts)
	for _, nb := range counts {
		if _, err := fmt.Fprintf(w, "%d\n%s\n", nb, rule); err != nil {
			return err
		}
		if generalized {
			for _, eq := range s.generalized[nb] {
				if err := eq.Visualize(w, full); err != nil {
					return err
				}
			}
		} else {
			for _, eq := range s.equations[nb] {
				if err := eq.Visualize(w, full); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

const rule = "------------------------------------------------------------"
