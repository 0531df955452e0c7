// Package refgraph holds the reference graph of a closed equation system:
// one node per defined equation identity and one edge from each equation to
// every identity its right-hand side references. Unlike a dependency DAG the
// graph is expected to be cyclic, since creation and annihilation terms
// reference each other. It is used to diagnose closure failures.
package refgraph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownNode is returned when a query names an identity that is not in
// the graph.
var ErrUnknownNode = errors.New("unknown node")

// Graph is a directed graph over equation identities. Edge targets need not
// be defined nodes; such targets are reported by Dangling.
type Graph struct {
	defined map[string]bool
	out     map[string]map[string]bool
	in      map[string]map[string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		defined: make(map[string]bool),
		out:     make(map[string]map[string]bool),
		in:      make(map[string]map[string]bool),
	}
}

// Define marks id as defined by some equation. It reports false if id was
// already defined.
func (g *Graph) Define(id string) bool {
	if g.defined[id] {
		return false
	}
	g.defined[id] = true
	g.touch(id)
	return true
}

// Reference records that the equation defining from references to.
// Repeated and self references are allowed.
func (g *Graph) Reference(from, to string) {
	g.touch(from)
	g.touch(to)
	g.out[from][to] = true
	g.in[to][from] = true
}

func (g *Graph) touch(id string) {
	if _, ok := g.out[id]; !ok {
		g.out[id] = make(map[string]bool)
		g.in[id] = make(map[string]bool)
	}
}

// Len returns the number of defined identities.
func (g *Graph) Len() int {
	return len(g.defined)
}

// Defined returns the defined identities, sorted.
func (g *Graph) Defined() []string {
	return sortedKeys(g.defined)
}

// Referenced returns every identity that appears as an edge target, sorted.
func (g *Graph) Referenced() []string {
	ids := make([]string, 0, len(g.in))
	for id, from := range g.in {
		if len(from) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Dangling returns referenced identities that no equation defines.
func (g *Graph) Dangling() []string {
	var ids []string
	for _, id := range g.Referenced() {
		if !g.defined[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Orphaned returns defined identities that nothing references.
func (g *Graph) Orphaned() []string {
	var ids []string
	for _, id := range g.Defined() {
		if len(g.in[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Reachable returns every identity reachable from root by following
// references, root included, sorted.
func (g *Graph) Reachable(root string) ([]string, error) {
	if _, ok := g.out[root]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, root)
	}
	seen := map[string]bool{root: true}
	stack := []string{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range g.out[id] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return sortedKeys(seen), nil
}

// Unreachable returns the defined identities not reachable from root.
func (g *Graph) Unreachable(root string) ([]string, error) {
	reach, err := g.Reachable(root)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(reach))
	for _, id := range reach {
		seen[id] = true
	}
	var ids []string
	for _, id := range g.Defined() {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Components partitions all nodes into weakly connected components. A
// closed system built from a single Green's function forms one component.
func (g *Graph) Components() [][]string {
	uf := newUnionFind[string]()
	for from, targets := range g.out {
		uf.add(from)
		for to := range targets {
			uf.union(from, to)
		}
	}
	return uf.groups()
}

func sortedKeys(m map[string]bool) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
