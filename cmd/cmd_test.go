package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papapumpkin/ggce/internal/hierarchy"
)

const holsteinModel = `models = ["H"]
m_extent = [2]
n_bosons = [2]
hopping = 1.0
omega = [1.0]
lambda = [0.5]
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holstein.toml")
	if err := os.WriteFile(path, []byte(holsteinModel), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("ggce %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestEnumerateCounts(t *testing.T) {
	out := execute(t, "enumerate", "--count", writeModel(t))
	want := "1\t1\n2\t2\ntotal\t3\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestBuildWritesExport(t *testing.T) {
	model := writeModel(t)
	dest := filepath.Join(t.TempDir(), "basis.json")
	execute(t, "build", model, "--json", dest, "--run-id", "holstein")

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exp hierarchy.Export
	if err := json.Unmarshal(data, &exp); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if exp.RunID != "holstein" {
		t.Errorf("RunID = %q, want holstein", exp.RunID)
	}
	if len(exp.Rows) != 7 {
		t.Errorf("export has %d rows, want 7", len(exp.Rows))
	}
	for i, r := range exp.Rows {
		if r.Global != i {
			t.Errorf("row %d (%s) has global index %d", i, r.ID, r.Global)
		}
	}
}

func TestPrintEvent(t *testing.T) {
	t.Parallel()

	line := `{"ts":"2026-01-02T03:04:05Z","kind":"stage_done","run":"r1","stage":"expand","data":{"elapsed_us":12,"a":"b"}}`
	tests := []struct {
		name  string
		line  string
		runID string
		want  string
	}{
		{"formatted", line, "", "[03:04:05] stage_done run=r1 stage=expand a=b elapsed_us=12\n"},
		{"matching run", line, "r1", "[03:04:05] stage_done run=r1 stage=expand a=b elapsed_us=12\n"},
		{"other run", line, "r2", ""},
		{"not json", "garbage", "", "??? garbage\n"},
		{"scalar data", `{"ts":"2026-01-02T03:04:05Z","kind":"warning","data":"predicted 3"}`, "", "[03:04:05] warning \"predicted 3\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printEvent(&buf, tt.line, tt.runID)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
