// Package hierarchy assembles the closed equation hierarchy of a model. It
// enumerates the legal phonon clouds, builds one generalized equation per
// cloud plus the Green's function equation, collects and deduplicates the
// arguments every equation requires, binds each generalized equation to
// its arguments, verifies that the resulting system is closed, and indexes
// the specific equations for the downstream solver.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/papapumpkin/ggce/internal/cloud"
	"github.com/papapumpkin/ggce/internal/combinatorics"
	"github.com/papapumpkin/ggce/internal/ctxlog"
	"github.com/papapumpkin/ggce/internal/equation"
	"github.com/papapumpkin/ggce/internal/model"
	"github.com/papapumpkin/ggce/internal/telemetry"
)

// ErrCountMismatch is returned in strict mode when an enumerated equation
// count disagrees with its prediction.
var ErrCountMismatch = errors.New("equation count mismatch")

// Stage names, in pipeline order.
const (
	StageEnumerate = "enumerate"
	StageBuild     = "build"
	StageResolve   = "resolve"
	StageExpand    = "expand"
	StageVerify    = "verify"
)

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage   string        `json:"stage"`
	Elapsed time.Duration `json:"elapsed"`
}

// Report summarizes a build.
type Report struct {
	RunID          string `json:"run_id"`
	Configurations int    `json:"configurations"`
	Generalized    int    `json:"generalized"`
	// PredictedGeneralized is the closed-form count, Green's function
	// included. It is only set when HasClosedForm is true.
	PredictedGeneralized int           `json:"predicted_generalized,omitempty"`
	HasClosedForm        bool          `json:"has_closed_form"`
	Equations            int           `json:"equations"`
	PredictedEquations   int           `json:"predicted_equations"`
	Closure              Closure       `json:"closure"`
	Warnings             []string      `json:"warnings,omitempty"`
	Timings              []StageTiming `json:"timings"`
}

// System is a built, verified equation hierarchy. It is read-only.
type System struct {
	model       *model.Model
	generalized map[int][]*equation.Equation
	equations   map[int][]equation.Specific
	args        *Arguments
	report      Report
}

// Option configures Build.
type Option func(*options)

type options struct {
	strict  bool
	cache   *cloud.Cache
	emitter *telemetry.Emitter
	runID   string
}

// WithStrict turns count mismatches into ErrCountMismatch.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithCache enumerates configurations through c.
func WithCache(c *cloud.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithEmitter records stage events to e.
func WithEmitter(e *telemetry.Emitter) Option {
	return func(o *options) { o.emitter = e }
}

// WithRunID labels the build's telemetry and exports. It defaults to the
// model fingerprint.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

type builder struct {
	opts options
	log  *slog.Logger
	sys  *System
}

// Build runs the pipeline for m. Stages run in order and the context is
// checked between them. Closure failure is returned as a *ClosureError
// wrapping ErrOpenSystem.
func Build(ctx context.Context, m *model.Model, opts ...Option) (*System, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = m.Fingerprint()
	}
	b := &builder{
		opts: o,
		log:  ctxlog.FromContext(ctx).With("run", o.runID),
		sys: &System{
			model:  m,
			report: Report{RunID: o.runID},
		},
	}
	b.emit(telemetry.KindBuildStart, "", map[string]string{"model": m.String()})

	var cat cloud.Catalog
	var args *ArgumentBuilder
	stages := []struct {
		name string
		msg  string
		fn   func() error
	}{
		{StageEnumerate, "legal configurations generated", func() (err error) {
			cat, err = b.opts.cache.Enumerate(m)
			if err == nil {
				b.sys.report.Configurations = cat.Len()
			}
			return err
		}},
		{StageBuild, "generalized equations initialized", func() (err error) {
			args, err = b.buildGeneralized(cat)
			return err
		}},
		{StageResolve, "arguments resolved", func() error {
			b.sys.args = args.Freeze()
			return b.predictGeneralized()
		}},
		{StageExpand, "equations initialized", b.expand},
		{StageVerify, "final checks", b.verify},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.stage(st.name, st.msg, st.fn); err != nil {
			return nil, err
		}
	}

	b.emit(telemetry.KindBuildDone, "", map[string]int{
		"generalized": b.sys.report.Generalized,
		"equations":   b.sys.report.Equations,
	})
	return b.sys, nil
}

func (b *builder) stage(name, msg string, fn func() error) error {
	start := time.Now()
	b.emit(telemetry.KindStageStart, name, nil)
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	elapsed := time.Since(start)
	b.log.Info(msg, "elapsed", elapsed)
	b.sys.report.Timings = append(b.sys.report.Timings, StageTiming{Stage: name, Elapsed: elapsed})
	b.emit(telemetry.KindStageDone, name, map[string]int64{"elapsed_us": elapsed.Microseconds()})
	return nil
}

func (b *builder) emit(kind, stage string, data any) {
	if err := b.opts.emitter.Stage(kind, b.opts.runID, stage, data); err != nil {
		b.log.Warn("telemetry emit failed", "kind", kind, "error", err)
	}
}

// warn records a structural warning. In strict mode it becomes an error.
func (b *builder) warn(stage, msg string) error {
	b.log.Error(msg, "stage", stage)
	b.emit(telemetry.KindWarning, stage, msg)
	if b.opts.strict {
		return fmt.Errorf("%w: %s", ErrCountMismatch, msg)
	}
	b.sys.report.Warnings = append(b.sys.report.Warnings, msg)
	return nil
}

func (b *builder) buildGeneralized(cat cloud.Catalog) (*ArgumentBuilder, error) {
	m := b.sys.model
	args := NewArgumentBuilder()
	gen := make(map[int][]*equation.Equation, len(cat)+1)
	for _, nb := range cat.PhononCounts() {
		for _, c := range cat[nb] {
			eq, err := equation.FromConfig(c, m)
			if err != nil {
				return nil, err
			}
			gen[nb] = append(gen[nb], eq)
			if err := args.Merge(eq.Requirements()); err != nil {
				return nil, err
			}
		}
	}

	green := equation.Green(m)
	if err := args.Merge(green.Requirements()); err != nil {
		return nil, err
	}
	gen[0] = []*equation.Equation{green}

	b.sys.generalized = gen
	for _, eqs := range gen {
		b.sys.report.Generalized += len(eqs)
	}
	b.log.Debug("arguments collected", "identities", len(args.keys), "pending", args.Pending())
	return args, nil
}

// predictGeneralized compares the generalized equation count with the
// closed form, which only exists for one boson type without a per-site cap.
func (b *builder) predictGeneralized() error {
	m := b.sys.model
	r := &b.sys.report
	r.PredictedEquations = b.sys.args.Total()
	if m.NTypes() != 1 || m.MaxPerSite != 0 {
		b.log.Info("predicted generalized equations", "count", r.Generalized)
		return nil
	}
	r.HasClosedForm = true
	r.PredictedGeneralized = 1 + combinatorics.GeneralizedEquations(min(m.AbsoluteExtent, m.Extent[0]), m.Number[0])
	if r.PredictedGeneralized != r.Generalized {
		return b.warn(StageResolve, fmt.Sprintf(
			"predicted %d generalized equations from the analytic formula but %d were generated",
			r.PredictedGeneralized, r.Generalized))
	}
	b.log.Info("predicted generalized equations agree with analytic formula", "count", r.Generalized)
	return nil
}

func (b *builder) expand() error {
	s := b.sys
	s.equations = make(map[int][]equation.Specific, len(s.generalized))
	for _, nb := range s.PhononCounts() {
		bucket := make([]equation.Specific, 0, len(s.generalized[nb]))
		for _, eq := range s.generalized[nb] {
			for _, d := range s.args.Deltas(eq.ID()) {
				bucket = append(bucket, eq.Bind(d))
			}
		}
		s.equations[nb] = bucket
		s.report.Equations += len(bucket)
	}
	if s.report.Equations != s.report.PredictedEquations {
		return b.warn(StageExpand, fmt.Sprintf(
			"predicted %d equations from generalized form but %d were generated",
			s.report.PredictedEquations, s.report.Equations))
	}
	b.log.Info("generated equations", "count", s.report.Equations)
	return nil
}

// Model returns the model the system was built from.
func (s *System) Model() *model.Model { return s.model }

// Report returns the build summary.
func (s *System) Report() Report { return s.report }

// Arguments returns the deduplicated master argument list.
func (s *System) Arguments() *Arguments { return s.args }

// PhononCounts returns the manifold keys in ascending order, 0 first.
func (s *System) PhononCounts() []int {
	keys := make([]int, 0, len(s.generalized))
	for k := range s.generalized {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Generalized returns the generalized equations by phonon count. The
// returned map is a copy; the equations themselves are immutable.
func (s *System) Generalized() map[int][]*equation.Equation {
	out := make(map[int][]*equation.Equation, len(s.generalized))
	for k, eqs := range s.generalized {
		out[k] = append([]*equation.Equation(nil), eqs...)
	}
	return out
}

// Equations returns the specific equations by phonon count, in generation
// order. The returned map is a copy.
func (s *System) Equations() map[int][]equation.Specific {
	out := make(map[int][]equation.Specific, len(s.equations))
	for k, eqs := range s.equations {
		out[k] = append([]equation.Specific(nil), eqs...)
	}
	return out
}

// Len returns the total number of specific equations.
func (s *System) Len() int { return s.report.Equations }
