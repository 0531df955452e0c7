package hierarchy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/ggce/internal/equation"
	"github.com/papapumpkin/ggce/internal/refgraph"
	"github.com/papapumpkin/ggce/internal/telemetry"
)

// ErrOpenSystem is returned when the defined and referenced identities of
// the expanded system differ: the linear system is under- or
// over-determined.
var ErrOpenSystem = errors.New("equation system is not closed")

// Closure is the verdict of the closure check.
type Closure struct {
	Defined    int `json:"defined"`
	Referenced int `json:"referenced"`
	// Missing identities are referenced but never defined.
	Missing []string `json:"missing,omitempty"`
	// Orphaned identities are defined but never referenced.
	Orphaned []string `json:"orphaned,omitempty"`
	// Duplicates are identities defined by more than one equation.
	Duplicates []string `json:"duplicates,omitempty"`
	Components int      `json:"components"`
	// Unreachable identities are defined but not reachable from G.
	Unreachable []string `json:"unreachable,omitempty"`
}

// OK reports whether every referenced identity is defined exactly once and
// every defined identity is referenced.
func (c Closure) OK() bool {
	return len(c.Missing) == 0 && len(c.Orphaned) == 0 && len(c.Duplicates) == 0
}

// ClosureError carries the failed verdict.
type ClosureError struct {
	Closure Closure
}

func (e *ClosureError) Error() string {
	var parts []string
	if n := len(e.Closure.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing (%s)", n, preview(e.Closure.Missing)))
	}
	if n := len(e.Closure.Orphaned); n > 0 {
		parts = append(parts, fmt.Sprintf("%d orphaned (%s)", n, preview(e.Closure.Orphaned)))
	}
	if n := len(e.Closure.Duplicates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicated (%s)", n, preview(e.Closure.Duplicates)))
	}
	return fmt.Sprintf("%s: %s", ErrOpenSystem, strings.Join(parts, ", "))
}

func (e *ClosureError) Unwrap() error { return ErrOpenSystem }

func preview(ids []string) string {
	const limit = 5
	if len(ids) <= limit {
		return strings.Join(ids, " ")
	}
	return strings.Join(ids[:limit], " ") + " ..."
}

// CheckClosure compares the identities defined by eqs with those their
// right-hand sides reference.
func CheckClosure(eqs map[int][]equation.Specific) Closure {
	g := refgraph.New()
	var c Closure
	for _, bucket := range eqs {
		for _, eq := range bucket {
			if !g.Define(eq.ID()) {
				c.Duplicates = append(c.Duplicates, eq.ID())
			}
		}
	}
	for _, bucket := range eqs {
		for _, eq := range bucket {
			for _, t := range eq.Terms {
				g.Reference(eq.ID(), t.ID())
			}
		}
	}

	c.Defined = g.Len()
	c.Referenced = len(g.Referenced())
	c.Missing = g.Dangling()
	c.Orphaned = g.Orphaned()
	c.Components = len(g.Components())
	if unreach, err := g.Unreachable(equation.GreenID); err == nil {
		c.Unreachable = unreach
	}
	return c
}

func (b *builder) verify() error {
	c := CheckClosure(b.sys.equations)
	b.sys.report.Closure = c
	b.emit(telemetry.KindClosure, StageVerify, c)
	if !c.OK() {
		err := &ClosureError{Closure: c}
		b.log.Error("critical error due to invalid closure",
			"missing", len(c.Missing), "orphaned", len(c.Orphaned), "duplicates", len(c.Duplicates))
		return err
	}
	if len(c.Unreachable) > 0 {
		b.log.Warn("closed subsystems disconnected from G", "count", len(c.Unreachable))
	}
	b.log.Info("closure checked and valid", "defined", c.Defined, "components", c.Components)
	return nil
}
