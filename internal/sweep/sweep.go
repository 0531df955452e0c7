// Package sweep expands a parameter sweep file into the list of model
// parameter sets to build. Every parameter declares a cycle: solo values
// apply to every point, zip lists advance together, and prod lists (or
// prod-linspace ranges) form a Cartesian product with the zip index.
package sweep

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/papapumpkin/ggce/internal/model"
)

var (
	// ErrUnknownCycle is returned for a cycle label other than solo, zip,
	// prod or prod-linspace.
	ErrUnknownCycle = errors.New("unknown cycle")
	// ErrUnknownParameter is returned for a parameter name the model does
	// not accept.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrBadValues is returned when a parameter's values do not have the
	// shape its cycle requires.
	ErrBadValues = errors.New("bad parameter values")
	// ErrUnsupportedFormat is returned for sweep files that are neither
	// TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported sweep format")
)

// Cycle determines how a parameter's values combine with the others.
type Cycle string

const (
	Solo         Cycle = "solo"
	Zip          Cycle = "zip"
	Prod         Cycle = "prod"
	ProdLinspace Cycle = "prod-linspace"
)

// Param is one swept parameter as written in the file.
type Param struct {
	Cycle Cycle `toml:"cycle" yaml:"cycle"`
	Vals  any   `toml:"vals" yaml:"vals"`
}

// File is the on-disk sweep description.
type File struct {
	Model      []string         `toml:"model" yaml:"model"`
	Info       string           `toml:"info" yaml:"info"`
	Parameters map[string]Param `toml:"model_parameters" yaml:"model_parameters"`
}

// kind classifies parameters by the shape of one value.
type kind int

const (
	perModelFloat kind = iota
	perModelInt
	scalarFloat
	scalarInt
)

var parameterKinds = map[string]kind{
	"m_extent":            perModelInt,
	"n_bosons":            perModelInt,
	"m_tfd":               perModelInt,
	"n_tfd":               perModelInt,
	"omega":               perModelFloat,
	"lambda":              perModelFloat,
	"g":                   perModelFloat,
	"hopping":             scalarFloat,
	"broadening":          scalarFloat,
	"temperature":         scalarFloat,
	"absolute_extent":     scalarInt,
	"max_bosons_per_site": scalarInt,
	"dimension":           scalarInt,
}

// Point is one parameter set of the sweep.
type Point struct {
	Index  int
	Values map[string][]float64 // values that vary across the sweep
	Params model.Params
}

// Sweep is a validated sweep ready for expansion.
type Sweep struct {
	Models []string
	Info   string

	solo   map[string][]float64
	zip    map[string][][]float64
	zipLen int
	prod   []axis
}

type axis struct {
	name string
	vals [][]float64
}

// Load reads a TOML or YAML sweep file.
func Load(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep %s: %w", path, err)
	}
	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing sweep %s: %w", path, err)
	}
	return Parse(f)
}

// Parse validates f. Product axes are ordered by parameter name so that
// expansion is deterministic.
func Parse(f File) (*Sweep, error) {
	if len(f.Model) == 0 {
		return nil, fmt.Errorf("%w: model list is empty", ErrBadValues)
	}
	s := &Sweep{
		Models: f.Model,
		Info:   f.Info,
		solo:   make(map[string][]float64),
		zip:    make(map[string][][]float64),
		zipLen: -1,
	}
	n := len(f.Model)

	names := make([]string, 0, len(f.Parameters))
	for name := range f.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := f.Parameters[name]
		k, ok := parameterKinds[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
		switch p.Cycle {
		case Solo:
			v, err := value(name, k, p.Vals, n)
			if err != nil {
				return nil, err
			}
			s.solo[name] = v
		case Zip, Prod:
			vals, err := valueList(name, k, p.Vals, n)
			if err != nil {
				return nil, err
			}
			if p.Cycle == Prod {
				s.prod = append(s.prod, axis{name: name, vals: vals})
				continue
			}
			if s.zipLen >= 0 && len(vals) != s.zipLen {
				return nil, fmt.Errorf("%w: zip parameter %s has %d values, others have %d", ErrBadValues, name, len(vals), s.zipLen)
			}
			s.zipLen = len(vals)
			s.zip[name] = vals
		case ProdLinspace:
			if k != perModelFloat {
				return nil, fmt.Errorf("%w: prod-linspace is only allowed for omega, lambda and g, not %s", ErrBadValues, name)
			}
			vals, err := linspace(name, p.Vals, n)
			if err != nil {
				return nil, err
			}
			s.prod = append(s.prod, axis{name: name, vals: vals})
		default:
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownCycle, p.Cycle, name)
		}
	}
	return s, nil
}

// Len returns the number of points.
func (s *Sweep) Len() int {
	total := max(s.zipLen, 1)
	for _, a := range s.prod {
		total *= len(a.vals)
	}
	return total
}

// Points expands the sweep: the zip index varies slowest and the last
// product axis fastest.
func (s *Sweep) Points() []Point {
	total := s.Len()
	points := make([]Point, 0, total)
	for i := 0; i < total; i++ {
		pt := Point{Index: i, Values: make(map[string][]float64)}
		pt.Params.Models = append([]string(nil), s.Models...)
		for name, v := range s.solo {
			apply(&pt.Params, name, v)
		}

		rem := i
		for a := len(s.prod) - 1; a >= 0; a-- {
			ax := s.prod[a]
			v := ax.vals[rem%len(ax.vals)]
			rem /= len(ax.vals)
			apply(&pt.Params, ax.name, v)
			pt.Values[ax.name] = v
		}
		if s.zipLen >= 0 {
			for name, vals := range s.zip {
				apply(&pt.Params, name, vals[rem])
				pt.Values[name] = vals[rem]
			}
		}
		points = append(points, pt)
	}
	return points
}

// Label renders the varying values of a point, e.g. "lambda=0.5 m_extent=2".
func (p Point) Label() string {
	names := make([]string, 0, len(p.Values))
	for name := range p.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		vals := make([]string, len(p.Values[name]))
		for k, v := range p.Values[name] {
			vals[k] = fmt.Sprintf("%g", v)
		}
		parts[i] = name + "=" + strings.Join(vals, ",")
	}
	return strings.Join(parts, " ")
}

func apply(p *model.Params, name string, v []float64) {
	switch name {
	case "m_extent":
		p.MExtent = ints(v)
	case "n_bosons":
		p.NBosons = ints(v)
	case "m_tfd":
		p.MTFD = ints(v)
	case "n_tfd":
		p.NTFD = ints(v)
	case "omega":
		p.Omega = append([]float64(nil), v...)
	case "lambda":
		p.Lambda = append([]float64(nil), v...)
	case "g":
		p.G = append([]float64(nil), v...)
	case "hopping":
		p.Hopping = v[0]
	case "broadening":
		p.Broadening = v[0]
	case "temperature":
		p.Temperature = v[0]
	case "absolute_extent":
		p.AbsoluteExtent = int(v[0])
	case "max_bosons_per_site":
		p.MaxBosonsPerSite = int(v[0])
	case "dimension":
		p.Dimension = int(v[0])
	}
}

func ints(v []float64) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}

// value converts one solo value. Per-model parameters take a list with one
// entry per model; scalars take a number.
func value(name string, k kind, raw any, n int) ([]float64, error) {
	switch k {
	case scalarFloat, scalarInt:
		x, ok := number(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a number", ErrBadValues, name)
		}
		if k == scalarInt && x != math.Trunc(x) {
			return nil, fmt.Errorf("%w: %s must be an integer, got %g", ErrBadValues, name, x)
		}
		return []float64{x}, nil
	}
	list, ok := numbers(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of numbers", ErrBadValues, name)
	}
	if len(list) != n {
		return nil, fmt.Errorf("%w: %s has %d entries for %d models", ErrBadValues, name, len(list), n)
	}
	if k == perModelInt {
		for _, x := range list {
			if x != math.Trunc(x) {
				return nil, fmt.Errorf("%w: %s must hold integers, got %g", ErrBadValues, name, x)
			}
		}
	}
	return list, nil
}

// valueList converts zip and prod values: a list of solo values.
func valueList(name string, k kind, raw any, n int) ([][]float64, error) {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%w: %s must be a non-empty list", ErrBadValues, name)
	}
	out := make([][]float64, len(items))
	for i, item := range items {
		v, err := value(name, k, item, n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// linspace expands one [start, stop, count] triple per model into count
// points, rounded to three decimals. Every model must use the same count.
func linspace(name string, raw any, n int) ([][]float64, error) {
	items, ok := raw.([]any)
	if !ok || len(items) != n {
		return nil, fmt.Errorf("%w: %s needs one [start, stop, count] per model", ErrBadValues, name)
	}
	count := -1
	ranges := make([][]float64, n)
	for i, item := range items {
		r, ok := numbers(item)
		if !ok || len(r) != 3 || r[2] < 1 || r[2] != math.Trunc(r[2]) {
			return nil, fmt.Errorf("%w: %s range %d must be [start, stop, count]", ErrBadValues, name, i)
		}
		if count >= 0 && int(r[2]) != count {
			return nil, fmt.Errorf("%w: %s ranges must share a count", ErrBadValues, name)
		}
		count = int(r[2])
		ranges[i] = r
	}

	out := make([][]float64, count)
	for j := range out {
		out[j] = make([]float64, n)
		for i, r := range ranges {
			x := r[0]
			if count > 1 {
				x = r[0] + float64(j)*(r[1]-r[0])/float64(count-1)
			}
			out[j][i] = math.Round(x*1000) / 1000
		}
	}
	return out, nil
}

func numbers(raw any) ([]float64, bool) {
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(items))
	for i, item := range items {
		x, ok := number(item)
		if !ok {
			return nil, false
		}
		out[i] = x
	}
	return out, true
}

func number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
