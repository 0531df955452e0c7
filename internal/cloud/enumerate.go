package cloud

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/papapumpkin/ggce/internal/combinatorics"
	"github.com/papapumpkin/ggce/internal/model"
)

var (
	// ErrUnsupportedDimension is returned for models with more than one
	// spatial dimension.
	ErrUnsupportedDimension = errors.New("only one spatial dimension is supported")
	// ErrInconsistentModel is returned when the per-type truncation lists
	// do not agree with the number of boson types.
	ErrInconsistentModel = errors.New("inconsistent model truncation")
)

// Catalog maps a phonon count to the legal configurations carrying that many
// phonons, in generation order. Only non-empty counts are present.
type Catalog map[int][]Config

// PhononCounts returns the catalog keys in ascending order.
func (c Catalog) PhononCounts() []int {
	keys := make([]int, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Len returns the total number of configurations in the catalog.
func (c Catalog) Len() int {
	n := 0
	for _, cfgs := range c {
		n += len(cfgs)
	}
	return n
}

// Enumerate generates every legal configuration of m. For each phonon count
// nb up to the sum of per-type maxima and each width z up to the absolute
// extent, it walks the ordered partitions of nb into z * types entries,
// reshapes each into a types x z matrix, and keeps the legal ones.
//
// Only the matrices that pass the filter are retained; the partition space
// itself is streamed.
func Enumerate(m *model.Model) (Catalog, error) {
	if err := checkModel(m); err != nil {
		return nil, err
	}

	lim := LimitsOf(m)
	types := m.NTypes()
	cat := make(Catalog)
	for nb := 1; nb <= m.MaxPhonons(); nb++ {
		for z := 1; z <= m.AbsoluteExtent; z++ {
			for flat := range combinatorics.Partitions(z*types, nb) {
				c := Config{types: types, width: z, occ: flat}
				if lim.Legal(c) {
					cat[nb] = append(cat[nb], c)
				}
			}
		}
	}
	return cat, nil
}

func checkModel(m *model.Model) error {
	if m.Dimension > 1 {
		return fmt.Errorf("%w: dimension %d", ErrUnsupportedDimension, m.Dimension)
	}
	types := m.NTypes()
	switch {
	case types == 0:
		return fmt.Errorf("%w: no boson types", ErrInconsistentModel)
	case len(m.Number) != types:
		return fmt.Errorf("%w: %d counts for %d types", ErrInconsistentModel, len(m.Number), types)
	case m.AbsoluteExtent < 1:
		return fmt.Errorf("%w: absolute extent %d", ErrInconsistentModel, m.AbsoluteExtent)
	}
	return nil
}

// Cache memoizes catalogs by model truncation so that sweeps and reloads
// which only change couplings skip enumeration. It is safe for concurrent
// use. A nil *Cache enumerates directly.
type Cache struct {
	lru    *lru.Cache[string, Catalog]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a cache holding up to size catalogs.
func NewCache(size int) (*Cache, error) {
	l, err := lru.New[string, Catalog](size)
	if err != nil {
		return nil, fmt.Errorf("cloud: new cache: %w", err)
	}
	return &Cache{lru: l}, nil
}

// Enumerate returns the cached catalog for m's truncation, enumerating and
// storing it on a miss. Cached catalogs are shared and must not be modified.
func (c *Cache) Enumerate(m *model.Model) (Catalog, error) {
	if c == nil {
		return Enumerate(m)
	}
	key := m.TruncationKey()
	if cat, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return cat, nil
	}
	c.misses.Add(1)
	cat, err := Enumerate(m)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, cat)
	return cat, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
