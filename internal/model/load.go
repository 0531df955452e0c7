package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	toml "github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Load reads raw model params from a .toml, .yaml/.yml, or .hcl file.
func Load(path string) (Params, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadTOML(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".hcl":
		return loadHCL(path)
	}
	return Params{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadModel reads and primes a model file in one step.
func LoadModel(path string) (*Model, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	m, err := New(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return m, nil
}

func loadTOML(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var p Params
	if err := toml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

func loadYAML(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

func loadHCL(path string) (Params, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Params{}, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var p Params
	if diags := gohcl.DecodeBody(file.Body, nil, &p); diags.HasErrors() {
		return Params{}, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return p, nil
}
