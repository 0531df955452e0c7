package combinatorics

// TightClouds returns the number of single-type occupation vectors of width
// z carrying exactly nb phonons whose first and last sites are both occupied.
func TightClouds(nb, z int) int {
	switch {
	case nb < 1 || z < 1:
		return 0
	case z == 1:
		return 1
	case nb < 2:
		return 0
	}
	// Pin one phonon on each edge and distribute the rest over all z sites.
	return CountPartitions(z, nb-2)
}

// GeneralizedEquations returns the analytic number of generalized equations
// for a single boson type with cloud extent m, at most n phonons and no
// per-site cap. The Green's function equation is not included.
func GeneralizedEquations(m, n int) int {
	total := 0
	for nb := 1; nb <= n; nb++ {
		for z := 1; z <= m; z++ {
			total += TightClouds(nb, z)
		}
	}
	return total
}
