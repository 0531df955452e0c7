// Package artifact publishes built bases to object storage so that solver
// jobs on other machines can fetch them by run ID.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/papapumpkin/ggce/internal/hierarchy"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("artifact not found")

// Object names written per run.
const (
	BasisObject  = "basis.json"
	ReportObject = "report.json"
)

// Store is an object store keyed by slash-separated paths.
type Store interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// ObjectKey joins prefix, run ID and object name into a store key.
func ObjectKey(prefix, runID, name string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, runID, name} {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// Publish writes the export and the build report of one run under
// prefix/runID and returns the keys written.
func Publish(ctx context.Context, s Store, prefix string, exp hierarchy.Export, report hierarchy.Report) ([]string, error) {
	if strings.TrimSpace(exp.RunID) == "" {
		return nil, fmt.Errorf("artifact: run id is required")
	}
	var basis bytes.Buffer
	if err := exp.WriteJSON(&basis); err != nil {
		return nil, err
	}
	rep, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("artifact: encode report: %w", err)
	}

	objects := []struct {
		name string
		data []byte
	}{
		{BasisObject, basis.Bytes()},
		{ReportObject, rep},
	}
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		key := ObjectKey(prefix, exp.RunID, o.name)
		if err := s.Put(ctx, key, o.data, "application/json"); err != nil {
			return keys, fmt.Errorf("artifact: put %s: %w", key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Fetch reads back a published export.
func Fetch(ctx context.Context, s Store, prefix, runID string) (hierarchy.Export, error) {
	key := ObjectKey(prefix, runID, BasisObject)
	data, err := s.Get(ctx, key)
	if err != nil {
		return hierarchy.Export{}, fmt.Errorf("artifact: get %s: %w", key, err)
	}
	var exp hierarchy.Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return hierarchy.Export{}, fmt.Errorf("artifact: decode %s: %w", key, err)
	}
	return exp, nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores a copy of content.
func (m *MemoryStore) Put(_ context.Context, key string, content []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), content...)
	return nil
}

// Get returns a copy of the stored content.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Keys returns the stored keys, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
