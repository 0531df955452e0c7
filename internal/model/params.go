package model

// Params is the raw, unprimed model description as read from a model file
// or produced by a sweep. One entry of every per-model list belongs to each
// label in Models.
type Params struct {
	Models           []string  `toml:"models" yaml:"models" hcl:"models"`
	MExtent          []int     `toml:"m_extent" yaml:"m_extent" hcl:"m_extent"`
	NBosons          []int     `toml:"n_bosons" yaml:"n_bosons" hcl:"n_bosons,optional"`
	Hopping          float64   `toml:"hopping" yaml:"hopping" hcl:"hopping"`
	Broadening       float64   `toml:"broadening" yaml:"broadening" hcl:"broadening,optional"`
	Omega            []float64 `toml:"omega" yaml:"omega" hcl:"omega"`
	Lambda           []float64 `toml:"lambda" yaml:"lambda" hcl:"lambda,optional"`
	G                []float64 `toml:"g" yaml:"g" hcl:"g,optional"`
	Temperature      float64   `toml:"temperature" yaml:"temperature" hcl:"temperature,optional"`
	MTFD             []int     `toml:"m_tfd" yaml:"m_tfd" hcl:"m_tfd,optional"`
	NTFD             []int     `toml:"n_tfd" yaml:"n_tfd" hcl:"n_tfd,optional"`
	AbsoluteExtent   int       `toml:"absolute_extent" yaml:"absolute_extent" hcl:"absolute_extent,optional"`
	MaxBosonsPerSite int       `toml:"max_bosons_per_site" yaml:"max_bosons_per_site" hcl:"max_bosons_per_site,optional"`
	Dimension        int       `toml:"dimension" yaml:"dimension" hcl:"dimension,optional"`
}

// couplings returns the dimensionless couplings and whether they are
// already prefactors (g) rather than lambdas.
func (p Params) couplings() ([]float64, bool) {
	if len(p.Lambda) == 0 {
		return p.G, true
	}
	return p.Lambda, false
}
