package cloud

import "github.com/papapumpkin/ggce/internal/model"

// Limits are the truncation parameters a configuration must respect.
type Limits struct {
	AbsoluteExtent int   // maximum cloud width; 0 disables the check
	MaxPerSite     int   // per-type, per-site occupation cap; 0 disables the check
	Extent         []int // maximum span per boson type; nil disables the check
	Number         []int // maximum phonon count per boson type; nil disables the check
}

// LimitsOf returns the truncation limits of a primed model.
func LimitsOf(m *model.Model) Limits {
	return Limits{
		AbsoluteExtent: m.AbsoluteExtent,
		MaxPerSite:     m.MaxPerSite,
		Extent:         m.Extent,
		Number:         m.Number,
	}
}

// Legal reports whether c is a legal cloud: non-empty, no wider than the
// absolute extent, within every per-site, per-type span and per-type count
// cap, and tight, meaning both edge columns are occupied.
func (l Limits) Legal(c Config) bool {
	if c.width < 1 || c.IsEmpty() {
		return false
	}
	if l.AbsoluteExtent > 0 && c.width > l.AbsoluteExtent {
		return false
	}
	for _, n := range c.occ {
		if n < 0 || (l.MaxPerSite > 0 && n > l.MaxPerSite) {
			return false
		}
	}
	for t := 0; t < c.types; t++ {
		if t < len(l.Extent) && c.Span(t) > l.Extent[t] {
			return false
		}
		if t < len(l.Number) && c.TypeTotal(t) > l.Number[t] {
			return false
		}
	}
	return c.ColumnTotal(0) > 0 && c.ColumnTotal(c.width-1) > 0
}
