package artifact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/ggce/internal/ctxlog"
	"github.com/papapumpkin/ggce/internal/hierarchy"
	"github.com/papapumpkin/ggce/internal/model"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, run, name string
		want              string
	}{
		{"ggce", "abc", BasisObject, "ggce/abc/basis.json"},
		{"", "abc", ReportObject, "abc/report.json"},
		{"/bases/", " abc/ ", "/basis.json", "bases/abc/basis.json"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.prefix, tt.run, tt.name); got != tt.want {
			t.Errorf("ObjectKey(%q, %q, %q) = %q, want %q", tt.prefix, tt.run, tt.name, got, tt.want)
		}
	}
}

func TestPublishAndFetch(t *testing.T) {
	t.Parallel()

	m, err := model.New(model.Params{
		Models:  []string{"H"},
		MExtent: []int{2},
		NBosons: []int{2},
		Hopping: 1,
		Omega:   []float64{1},
		Lambda:  []float64{0.5},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	sys, err := hierarchy.Build(ctx, m, hierarchy.WithRunID("h22"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	store := NewMemoryStore()
	keys, err := Publish(ctx, store, "ggce", sys.Export(), sys.Report())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	want := []string{"ggce/h22/basis.json", "ggce/h22/report.json"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, store.Keys()); diff != "" {
		t.Errorf("stored keys mismatch (-want +got):\n%s", diff)
	}

	got, err := Fetch(ctx, store, "ggce", "h22")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if diff := cmp.Diff(sys.Export(), got); diff != "" {
		t.Errorf("fetched export mismatch (-published +fetched):\n%s", diff)
	}

	report, err := store.Get(ctx, "ggce/h22/report.json")
	if err != nil {
		t.Fatalf("Get report: %v", err)
	}
	if !strings.Contains(string(report), `"closure"`) {
		t.Errorf("report lacks closure section: %s", report)
	}
}

func TestFetchMissing(t *testing.T) {
	t.Parallel()

	_, err := Fetch(context.Background(), NewMemoryStore(), "ggce", "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPublishRequiresRunID(t *testing.T) {
	t.Parallel()

	if _, err := Publish(context.Background(), NewMemoryStore(), "", hierarchy.Export{}, hierarchy.Report{}); err == nil {
		t.Error("expected error for empty run id")
	}
}

func TestNewS3StoreValidates(t *testing.T) {
	t.Parallel()

	base := S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}
	tests := []struct {
		name   string
		mutate func(*S3Config)
		want   string
	}{
		{"endpoint", func(c *S3Config) { c.Endpoint = " " }, "endpoint"},
		{"credentials", func(c *S3Config) { c.SecretKey = "" }, "access key"},
		{"bucket", func(c *S3Config) { c.Bucket = "" }, "bucket"},
	}
	for _, tt := range tests {
		cfg := base
		tt.mutate(&cfg)
		_, err := NewS3Store(cfg)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: got %v, want error mentioning %q", tt.name, err, tt.want)
		}
	}

	s, err := NewS3Store(base)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	if s.region != "us-east-1" || s.bucket != "b" {
		t.Errorf("defaults not applied: region %q bucket %q", s.region, s.bucket)
	}
}
