package equation

import (
	"fmt"
	"io"
	"strconv"
)

// Visualize writes e and its right-hand side to w. With full set, each term
// also shows its coefficient, phase and propagator argument.
func (e *Equation) Visualize(w io.Writer, full bool) error {
	return writeEquation(w, e.index.ID(), e.frequencyShift, e.terms, full)
}

// Visualize writes s and its right-hand side to w.
func (s Specific) Visualize(w io.Writer, full bool) error {
	return writeEquation(w, s.ID(), s.FrequencyShift, s.Terms, full)
}

func writeEquation(w io.Writer, id string, shift float64, terms []Term, full bool) error {
	if _, err := fmt.Fprintf(w, "%s  [w-%s]\n", id, strconv.FormatFloat(shift, 'g', 4, 64)); err != nil {
		return err
	}
	for _, t := range terms {
		var err error
		if full {
			_, err = fmt.Fprintf(w, "    %+.4g %s  %s  e^(ik%s)  g0(%s)\n",
				t.Coefficient, t.Dagger, t.ID(), strconv.FormatFloat(t.Phase, 'g', -1, 64), propagator(t.GArg))
		} else {
			_, err = fmt.Fprintf(w, "    %s\n", t.ID())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func propagator(d Delta) string {
	if d == nil {
		return "0"
	}
	return d.Key()
}
