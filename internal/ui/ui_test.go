package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/papapumpkin/ggce/internal/hierarchy"
	"github.com/papapumpkin/ggce/internal/model"
)

func assertContains(t *testing.T, output string, substrs ...string) {
	t.Helper()
	for _, s := range substrs {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)
	p.BuildSummary(hierarchy.Report{
		RunID:                "run-1",
		Configurations:       3,
		Generalized:          4,
		PredictedGeneralized: 4,
		HasClosedForm:        true,
		Equations:            7,
		PredictedEquations:   7,
		Warnings:             []string{"predicted 8 equations"},
		Timings: []hierarchy.StageTiming{
			{Stage: hierarchy.StageEnumerate, Elapsed: 2 * time.Millisecond},
			{Stage: hierarchy.StageVerify, Elapsed: time.Millisecond},
		},
		Closure: hierarchy.Closure{Defined: 7, Referenced: 7, Components: 1},
	})

	assertContains(t, buf.String(),
		"build run-1",
		"configurations",
		"predicted 4",
		"equations",
		"3ms",
		"enumerate 2ms",
		"predicted 8 equations",
		"closed: 7 equations",
	)
}

func TestClosureOpen(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf).Closure(hierarchy.Closure{
		Defined:    2,
		Referenced: 3,
		Missing:    []string{"(2)[0]"},
		Orphaned:   []string{"(1)[5]"},
	})
	out := buf.String()
	assertContains(t, out, "open system", "missing: (2)[0]", "orphaned: (1)[5]")
	if strings.Contains(out, "duplicate") {
		t.Errorf("empty duplicate list should not print, got:\n%s", out)
	}
}

func TestValidateResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)
	p.ValidateResult("ok.toml", nil)
	p.ValidateResult("bad.toml", []model.ValidationError{{
		Category: model.ValCatMissingField,
		Field:    "models",
		Err:      errors.New("required field missing"),
	}})

	assertContains(t, buf.String(),
		`"ok.toml" — no errors`,
		`"bad.toml" — 1 error(s)`,
		"models: required field missing",
		"[missing_field]",
	)
}

func TestMessages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)
	p.Error("boom")
	p.Warn("careful")
	p.Info("fyi")
	p.Success("done")
	p.SweepPoint(0, 4, "lambda=0.5", hierarchy.Report{Equations: 9})

	assertContains(t, buf.String(), "error:", "boom", "careful", "fyi", "done", "[1/4]", "lambda=0.5", "9 equations")
}
