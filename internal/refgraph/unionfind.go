package refgraph

import (
	"cmp"
	"slices"
)

// unionFind partitions identities into weakly connected groups using path
// compression and union by rank.
type unionFind[T cmp.Ordered] struct {
	parent map[T]T
	rank   map[T]int
}

func newUnionFind[T cmp.Ordered]() *unionFind[T] {
	return &unionFind[T]{
		parent: make(map[T]T),
		rank:   make(map[T]int),
	}
}

func (uf *unionFind[T]) add(x T) {
	if _, ok := uf.parent[x]; !ok {
		uf.parent[x] = x
	}
}

func (uf *unionFind[T]) find(x T) T {
	uf.add(x)
	if uf.parent[x] != x {
		uf.parent[x] = uf.find(uf.parent[x])
	}
	return uf.parent[x]
}

func (uf *unionFind[T]) union(x, y T) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
}

// groups returns every set with its members sorted, ordered by smallest
// member.
func (uf *unionFind[T]) groups() [][]T {
	byRoot := make(map[T][]T)
	for x := range uf.parent {
		r := uf.find(x)
		byRoot[r] = append(byRoot[r], x)
	}
	out := make([][]T, 0, len(byRoot))
	for _, g := range byRoot {
		slices.Sort(g)
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b []T) int { return cmp.Compare(a[0], b[0]) })
	return out
}
