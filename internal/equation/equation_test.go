package equation

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/ggce/internal/cloud"
	"github.com/papapumpkin/ggce/internal/model"
)

func newModel(t *testing.T, coupling string, m, n int) *model.Model {
	t.Helper()
	mod, err := model.New(model.Params{
		Models:  []string{coupling},
		MExtent: []int{m},
		NBosons: []int{n},
		Hopping: 1,
		Omega:   []float64{1.25},
		G:       []float64{0.5},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return mod
}

func rows(t *testing.T, r ...[]int) cloud.Config {
	t.Helper()
	c, err := cloud.FromRows(r)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return c
}

func requirementIDs(reqs []Requirement) []string {
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return ids
}

func termIDs(terms []Term) []string {
	ids := make([]string, len(terms))
	for i, t := range terms {
		ids[i] = t.ID()
	}
	return ids
}

func TestDelta(t *testing.T) {
	t.Parallel()

	d := Delta{0.5}
	if got := d.Add(Delta{1}); !got.Equal(Delta{1.5}) {
		t.Errorf("Add = %v, want [1.5]", got)
	}
	if got := (Delta{math.Copysign(0, -1)}).Key(); got != "0" {
		t.Errorf("Key(-0) = %q, want 0", got)
	}
	if got := (Delta{1, -2.5}).Key(); got != "1,-2.5" {
		t.Errorf("Key = %q, want 1,-2.5", got)
	}
	if (Delta{1}).Equal(Delta{1, 0}) {
		t.Error("deltas of different length compare equal")
	}
	if Delta(nil).Clone() != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestHolsteinSingleSite(t *testing.T) {
	t.Parallel()

	m := newModel(t, "H", 1, 1)

	green := Green(m)
	if green.ID() != GreenID || green.Phonons() != 0 {
		t.Errorf("Green: ID %q phonons %d", green.ID(), green.Phonons())
	}
	if diff := cmp.Diff([]string{"(1)[0]"}, termIDs(green.Terms())); diff != "" {
		t.Errorf("Green terms mismatch (-want +got):\n%s", diff)
	}

	eq, err := FromConfig(rows(t, []int{1}), m)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if diff := cmp.Diff([]string{GreenID}, termIDs(eq.Terms())); diff != "" {
		t.Errorf("(1) terms mismatch (-want +got):\n%s", diff)
	}
	want := []Requirement{{ID: GreenID, Deltas: []Delta{{0}}}}
	if diff := cmp.Diff(want, eq.Requirements()); diff != "" {
		t.Errorf("requirements mismatch (-want +got):\n%s", diff)
	}
	if got := eq.Terms()[0].Coefficient; got != -0.5 {
		t.Errorf("annihilation coefficient = %g, want -0.5", got)
	}
}

func TestEdwardsSinglePhonon(t *testing.T) {
	t.Parallel()

	m := newModel(t, "EFB", 2, 2)
	eq, err := FromConfig(rows(t, []int{1}), m)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	wantTerms := []string{
		"(1,1)[0]", "(2)[0]", "(1,1)[1]",
		"(1,1)[0]", "(2)[0]", "(1,1)[1]",
		GreenID, GreenID,
	}
	if diff := cmp.Diff(wantTerms, termIDs(eq.Terms())); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"(1,1)", "(2)", GreenID}, requirementIDs(eq.Requirements())); diff != "" {
		t.Errorf("requirement order mismatch (-want +got):\n%s", diff)
	}
	if got := len(eq.Requirements()[0].Deltas); got != 4 {
		t.Errorf("(1,1) requirements keep duplicates: got %d deltas, want 4", got)
	}

	green := Green(m)
	want := []Requirement{{ID: "(1)", Deltas: []Delta{{0}, {0}}}}
	if diff := cmp.Diff(want, green.Requirements()); diff != "" {
		t.Errorf("Green requirements mismatch (-want +got):\n%s", diff)
	}
}

func TestCreationRespectsLegality(t *testing.T) {
	t.Parallel()

	m := newModel(t, "EFB", 2, 2)
	eq, err := FromConfig(rows(t, []int{1, 1}), m)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	for _, term := range eq.Terms() {
		if term.Dagger == model.Create {
			t.Errorf("unexpected creation term %s: cloud is already at N", term.ID())
		}
		if term.Kind == KindGreen {
			t.Errorf("two-phonon cloud references %s", term.ID())
		}
	}
	for _, term := range eq.Terms() {
		if term.ConfigID() != "(1)" {
			t.Errorf("annihilation from (1,1) reached %s, want (1)", term.ConfigID())
		}
	}
}

func TestBindIsValueSemantic(t *testing.T) {
	t.Parallel()

	m := newModel(t, "EFB", 2, 2)
	eq, err := FromConfig(rows(t, []int{1}), m)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	before := eq.Terms()

	s := eq.Bind(Delta{0.5})
	if s.ID() != "(1)[0.5]" {
		t.Errorf("ID() = %q, want (1)[0.5]", s.ID())
	}
	if eq.Index().FArg != nil {
		t.Errorf("Bind modified the generalized index argument: %v", eq.Index().FArg)
	}
	if !s.Terms[0].GArg.Equal(before[0].GArg.Add(Delta{0.5})) {
		t.Errorf("propagator argument = %v, want %v shifted by 0.5", s.Terms[0].GArg, before[0].GArg)
	}
	if diff := cmp.Diff(before, eq.Terms(), cmp.AllowUnexported(cloud.Config{})); diff != "" {
		t.Errorf("Bind modified generalized terms (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(termIDs(before), termIDs(s.Terms)); diff != "" {
		t.Errorf("binding changed referenced identities (-want +got):\n%s", diff)
	}

	g := Green(m).Bind(Delta{0})
	if g.ID() != GreenID {
		t.Errorf("bound Green ID = %q, want G", g.ID())
	}
	for _, term := range g.Terms {
		if term.GArg != nil {
			t.Errorf("Green term %s has propagator argument %v", term.ID(), term.GArg)
		}
	}
}

func TestFrequencyShift(t *testing.T) {
	t.Parallel()

	m := newModel(t, "H", 3, 3)
	eq, err := FromConfig(rows(t, []int{1, 0, 2}), m)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if got := eq.FrequencyShift(); got != 3.75 {
		t.Errorf("FrequencyShift() = %g, want 3.75", got)
	}
	if eq.Phonons() != 3 {
		t.Errorf("Phonons() = %d, want 3", eq.Phonons())
	}
}

func TestFromConfigShapeMismatch(t *testing.T) {
	t.Parallel()

	m := newModel(t, "H", 2, 2)
	tests := []struct {
		name string
		cfg  cloud.Config
	}{
		{"two types", rows(t, []int{1}, []int{1})},
		{"empty", cloud.Empty(1)},
	}
	for _, tt := range tests {
		_, err := FromConfig(tt.cfg, m)
		if !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("%s: got %v, want ErrShapeMismatch", tt.name, err)
		}
	}
}

func TestVisualize(t *testing.T) {
	t.Parallel()

	m := newModel(t, "H", 1, 1)
	eq, err := FromConfig(rows(t, []int{1}), m)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	var short, full bytes.Buffer
	if err := eq.Bind(Delta{0}).Visualize(&short, false); err != nil {
		t.Fatalf("Visualize: %v", err)
	}
	if err := eq.Visualize(&full, true); err != nil {
		t.Fatalf("Visualize: %v", err)
	}

	if want := "(1)[0]  [w-1.25]\n    G\n"; short.String() != want {
		t.Errorf("short output = %q, want %q", short.String(), want)
	}
	out := full.String()
	for _, want := range []string{"(1)[?]", "-0.5", "g0(0)", "e^(ik0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("full output missing %q:\n%s", want, out)
		}
	}
}
