package equation

import (
	"github.com/papapumpkin/ggce/internal/cloud"
	"github.com/papapumpkin/ggce/internal/model"
)

// GreenID is the identity of the Green's function, the zero-phonon unknown.
const GreenID = "G"

// Kind distinguishes references to cloud functions from references to the
// Green's function.
type Kind int

const (
	// KindCloud is an auxiliary function f_n of a non-empty cloud n.
	KindCloud Kind = iota
	// KindGreen is the Green's function G.
	KindGreen
)

// String returns "f" or "G".
func (k Kind) String() string {
	if k == KindGreen {
		return GreenID
	}
	return "f"
}

// IndexTerm is the unknown an equation defines. FArg is nil until the
// equation is bound.
type IndexTerm struct {
	Kind   Kind
	Config cloud.Config
	FArg   Delta
}

// ConfigID returns the phonon configuration identity: the cloud's ID, or
// GreenID for the Green's function.
func (t IndexTerm) ConfigID() string {
	if t.Kind == KindGreen {
		return GreenID
	}
	return t.Config.ID()
}

// ID returns the full identity of the unknown, e.g. "(1,0,2)[0.5]". An
// unbound cloud term prints its argument as "?". The Green's function has
// no argument.
func (t IndexTerm) ID() string {
	if t.Kind == KindGreen {
		return GreenID
	}
	if t.FArg == nil {
		return t.Config.ID() + "[?]"
	}
	return t.Config.ID() + "[" + t.FArg.Key() + "]"
}

// Term is one right-hand-side reference of an equation: the referenced
// unknown at a fixed argument, multiplied by a coefficient, a phase
// e^{ik*Phase} and a free propagator evaluated at GArg.
type Term struct {
	Kind        Kind
	Config      cloud.Config
	FArg        Delta
	GArg        Delta // nil when the propagator is local
	Coefficient float64
	Phase       float64
	Dagger      model.Dagger
	BosonType   int
}

// ConfigID returns the referenced configuration identity.
func (t Term) ConfigID() string {
	return t.index().ConfigID()
}

// ID returns the identity of the referenced unknown. It matches the ID of
// the specific equation that defines it.
func (t Term) ID() string {
	return t.index().ID()
}

func (t Term) index() IndexTerm {
	return IndexTerm{Kind: t.Kind, Config: t.Config, FArg: t.FArg}
}

func (t Term) bind(d Delta) Term {
	out := t
	out.FArg = t.FArg.Clone()
	if t.GArg != nil {
		out.GArg = t.GArg.Add(d)
	}
	return out
}
