// Package ui provides stderr-based output for the ggce command line.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/papapumpkin/ggce/internal/hierarchy"
	"github.com/papapumpkin/ggce/internal/model"
)

// Printer writes styled, human-facing messages. Machine-readable output
// goes to stdout separately.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to stderr.
func New() *Printer {
	return &Printer{w: os.Stderr}
}

// NewWithWriter returns a Printer writing to w.
func NewWithWriter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Banner(m *model.Model) {
	title := styleHeading.Render("GGCE") + styleDim.Render("  equation hierarchy builder")
	fmt.Fprintln(p.w, styleBanner.Render(title+"\n"+m.String()))
}

func (p *Printer) Error(msg string) {
	p.printf("%s %s\n", styleDanger.Render("error:"), msg)
}

func (p *Printer) Warn(msg string) {
	p.printf("%s %s\n", styleWarn.Render(iconWarn), msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, styleDim.Render(msg))
}

func (p *Printer) Success(msg string) {
	p.printf("%s %s\n", styleSuccess.Render(iconDone), msg)
}

// BuildSummary prints the counts, timings and warnings of a build.
func (p *Printer) BuildSummary(r hierarchy.Report) {
	fmt.Fprintln(p.w, styleHeading.Render("build "+r.RunID))
	p.row("configurations", fmt.Sprintf("%d", r.Configurations))
	gen := fmt.Sprintf("%d", r.Generalized)
	if r.HasClosedForm {
		gen += styleDim.Render(fmt.Sprintf(" (predicted %d)", r.PredictedGeneralized))
	}
	p.row("generalized", gen)
	p.row("equations", fmt.Sprintf("%d", r.Equations)+styleDim.Render(fmt.Sprintf(" (predicted %d)", r.PredictedEquations)))

	if len(r.Timings) > 0 {
		var total time.Duration
		parts := make([]string, len(r.Timings))
		for i, t := range r.Timings {
			total += t.Elapsed
			parts[i] = fmt.Sprintf("%s %s", t.Stage, t.Elapsed.Round(time.Microsecond))
		}
		p.row("elapsed", total.Round(time.Microsecond).String()+styleDim.Render("  "+strings.Join(parts, ", ")))
	}
	for _, w := range r.Warnings {
		p.Warn(w)
	}
	p.Closure(r.Closure)
}

// Closure prints the closure verdict and, for an open system, the
// offending identities.
func (p *Printer) Closure(c hierarchy.Closure) {
	if c.OK() {
		p.printf("%s closed: %d equations, %d referenced, %d component(s)\n",
			styleSuccess.Render(iconDone), c.Defined, c.Referenced, c.Components)
		return
	}
	p.printf("%s open system: %d defined, %d referenced\n",
		styleDanger.Render(iconFailed), c.Defined, c.Referenced)
	p.list("missing", c.Missing)
	p.list("orphaned", c.Orphaned)
	p.list("duplicate", c.Duplicates)
	p.list("unreachable", c.Unreachable)
}

// ValidateResult prints the outcome of validating a model file.
func (p *Printer) ValidateResult(path string, errs []model.ValidationError) {
	if len(errs) == 0 {
		p.printf("%s %q — no errors\n", styleSuccess.Render(iconDone+" model"), path)
		return
	}
	p.printf("%s %q — %d error(s):\n", styleDanger.Render(iconFailed+" model"), path, len(errs))
	for _, e := range errs {
		p.printf("  %s %s %s\n", styleDanger.Render(iconBullet), e.Error(), styleDim.Render("["+string(e.Category)+"]"))
	}
}

// SweepPoint prints one line per built sweep point.
func (p *Printer) SweepPoint(index, total int, label string, r hierarchy.Report) {
	p.printf("%s %s %s\n",
		styleDim.Render(fmt.Sprintf("[%d/%d]", index+1, total)),
		label,
		styleDim.Render(fmt.Sprintf("%d equations", r.Equations)))
}

func (p *Printer) row(label, value string) {
	p.printf("  %s%s\n", styleLabel.Render(label), value)
}

func (p *Printer) list(label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	p.printf("  %s %s %s\n", styleDanger.Render(iconBullet), label+":", strings.Join(ids, ", "))
}
