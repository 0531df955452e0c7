package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadFormats(t *testing.T) {
	t.Parallel()

	want := Params{
		Models:         []string{"EFB"},
		MExtent:        []int{2},
		NBosons:        []int{2},
		Hopping:        1.0,
		Broadening:     0.005,
		Omega:          []float64{1.25},
		G:              []float64{0.5},
		AbsoluteExtent: 2,
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "model.toml",
			content: `models = ["EFB"]
m_extent = [2]
n_bosons = [2]
hopping = 1.0
broadening = 0.005
omega = [1.25]
g = [0.5]
absolute_extent = 2
`,
		},
		{
			name: "yaml",
			file: "model.yaml",
			content: `models: [EFB]
m_extent: [2]
n_bosons: [2]
hopping: 1.0
broadening: 0.005
omega: [1.25]
g: [0.5]
absolute_extent: 2
`,
		},
		{
			name: "hcl",
			file: "model.hcl",
			content: `models          = ["EFB"]
m_extent        = [2]
n_bosons        = [2]
hopping         = 1.0
broadening      = 0.005
omega           = [1.25]
g               = [0.5]
absolute_extent = 2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, tt.file, tt.content)
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadModel(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "h.toml", `models = ["H"]
m_extent = [2]
n_bosons = [2]
hopping = 1.0
omega = [1.0]
lambda = [1.0]
`)
	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if m.AbsoluteExtent != 2 || m.MaxPhonons() != 2 {
		t.Errorf("got A=%d N=%d, want 2 and 2", m.AbsoluteExtent, m.MaxPhonons())
	}
}

func TestLoadModelInvalid(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bad.toml", `models = ["H"]
m_extent = [2, 3]
n_bosons = [2]
hopping = 1.0
omega = [1.0]
lambda = [1.0]
`)
	_, err := LoadModel(path)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Load("model.json")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist in chain", err)
	}
}
