package sweep

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/ggce/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

const tomlSweep = `model = ["H"]
info = "holstein coupling scan"

[model_parameters.m_extent]
cycle = "solo"
vals = [2]

[model_parameters.n_bosons]
cycle = "solo"
vals = [2]

[model_parameters.hopping]
cycle = "solo"
vals = 1.0

[model_parameters.omega]
cycle = "zip"
vals = [[1.0], [2.0]]

[model_parameters.broadening]
cycle = "zip"
vals = [0.01, 0.02]

[model_parameters.lambda]
cycle = "prod-linspace"
vals = [[0.0, 1.0, 3]]
`

const yamlSweep = `model: [H]
info: holstein coupling scan
model_parameters:
  m_extent: {cycle: solo, vals: [2]}
  n_bosons: {cycle: solo, vals: [2]}
  hopping: {cycle: solo, vals: 1.0}
  omega: {cycle: zip, vals: [[1.0], [2.0]]}
  broadening: {cycle: zip, vals: [0.01, 0.02]}
  lambda: {cycle: prod-linspace, vals: [[0.0, 1.0, 3]]}
`

func TestLoadExpandsPoints(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct{ name, file, content string }{
		{"toml", "sweep.toml", tomlSweep},
		{"yaml", "sweep.yaml", yamlSweep},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if s.Len() != 6 {
				t.Fatalf("Len() = %d, want 6", s.Len())
			}
			pts := s.Points()

			type got struct {
				Omega      float64
				Broadening float64
				Lambda     float64
			}
			var seq []got
			for _, p := range pts {
				seq = append(seq, got{p.Params.Omega[0], p.Params.Broadening, p.Params.Lambda[0]})
			}
			want := []got{
				{1, 0.01, 0}, {1, 0.01, 0.5}, {1, 0.01, 1},
				{2, 0.02, 0}, {2, 0.02, 0.5}, {2, 0.02, 1},
			}
			if diff := cmp.Diff(want, seq); diff != "" {
				t.Errorf("point order mismatch (-want +got):\n%s", diff)
			}

			first := pts[0].Params
			if diff := cmp.Diff([]int{2}, first.MExtent); diff != "" {
				t.Errorf("solo m_extent mismatch (-want +got):\n%s", diff)
			}
			if first.Hopping != 1 {
				t.Errorf("hopping = %g, want 1", first.Hopping)
			}
			if _, err := model.New(first); err != nil {
				t.Errorf("first point is not a valid model: %v", err)
			}
		})
	}
}

func TestProdIsCartesian(t *testing.T) {
	t.Parallel()

	s, err := Parse(File{
		Model: []string{"H", "EFB"},
		Parameters: map[string]Param{
			"m_extent": {Cycle: Prod, Vals: []any{[]any{1, 1}, []any{2, 2}}},
			"omega":    {Cycle: Prod, Vals: []any{[]any{1.0, 1.0}, []any{2.0, 2.0}, []any{3.0, 3.0}}},
		},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", s.Len())
	}
	pts := s.Points()
	if got := pts[1].Label(); got != "m_extent=1,1 omega=2,2" {
		t.Errorf("Label() = %q", got)
	}
	if got := pts[5].Label(); got != "m_extent=2,2 omega=3,3" {
		t.Errorf("Label() = %q", got)
	}
}

func TestLinspaceRounds(t *testing.T) {
	t.Parallel()

	vals, err := linspace("lambda", []any{[]any{0.0, 1.0, int64(4)}}, 1)
	if err != nil {
		t.Fatalf("linspace: %v", err)
	}
	want := [][]float64{{0}, {0.333}, {0.667}, {1}}
	if diff := cmp.Diff(want, vals); diff != "" {
		t.Errorf("linspace mismatch (-want +got):\n%s", diff)
	}

	single, err := linspace("g", []any{[]any{0.25, 9.0, 1}}, 1)
	if err != nil {
		t.Fatalf("linspace: %v", err)
	}
	if diff := cmp.Diff([][]float64{{0.25}}, single); diff != "" {
		t.Errorf("single-point linspace mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params map[string]Param
		want   error
	}{
		{
			name:   "unknown cycle",
			params: map[string]Param{"omega": {Cycle: "spiral", Vals: []any{1.0}}},
			want:   ErrUnknownCycle,
		},
		{
			name:   "unknown parameter",
			params: map[string]Param{"Omega": {Cycle: Solo, Vals: []any{1.0}}},
			want:   ErrUnknownParameter,
		},
		{
			name: "zip lengths differ",
			params: map[string]Param{
				"omega":  {Cycle: Zip, Vals: []any{[]any{1.0}, []any{2.0}}},
				"lambda": {Cycle: Zip, Vals: []any{[]any{1.0}}},
			},
			want: ErrBadValues,
		},
		{
			name:   "per-model length",
			params: map[string]Param{"omega": {Cycle: Solo, Vals: []any{1.0, 2.0}}},
			want:   ErrBadValues,
		},
		{
			name:   "fractional extent",
			params: map[string]Param{"m_extent": {Cycle: Solo, Vals: []any{1.5}}},
			want:   ErrBadValues,
		},
		{
			name:   "linspace on integer parameter",
			params: map[string]Param{"n_bosons": {Cycle: ProdLinspace, Vals: []any{[]any{1, 3, 3}}}},
			want:   ErrBadValues,
		},
		{
			name:   "scalar given a list",
			params: map[string]Param{"hopping": {Cycle: Solo, Vals: []any{1.0}}},
			want:   ErrBadValues,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(File{Model: []string{"H"}, Parameters: tt.params})
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, "sweep.json", "{}"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}
