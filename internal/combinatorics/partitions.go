// Package combinatorics provides the counting and enumeration primitives used
// to build phonon cloud configurations: ordered integer partitions, binomial
// coefficients, and the closed-form count of generalized equations.
package combinatorics

import "iter"

// Partitions returns a lazy sequence over every ordered tuple of length
// non-negative integers summing to total. Tuples are produced in
// lexicographic order of their leading elements and each yielded slice is
// freshly allocated, so callers may retain it.
//
// The sequence is restartable: ranging over it again replays the same tuples.
// Invalid arguments (length < 1 or total < 0) yield nothing.
func Partitions(length, total int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if length < 1 || total < 0 {
			return
		}
		buf := make([]int, length)
		fill(buf, 0, total, yield)
	}
}

// fill assigns buf[pos:] recursively. It returns false once the consumer
// stops iterating so that the whole recursion unwinds immediately.
func fill(buf []int, pos, remaining int, yield func([]int) bool) bool {
	if pos == len(buf)-1 {
		buf[pos] = remaining
		out := make([]int, len(buf))
		copy(out, buf)
		return yield(out)
	}
	for v := 0; v <= remaining; v++ {
		buf[pos] = v
		if !fill(buf, pos+1, remaining-v, yield) {
			return false
		}
	}
	return true
}

// CountPartitions returns the number of tuples Partitions(length, total)
// yields: C(total+length-1, length-1).
func CountPartitions(length, total int) int {
	if length < 1 || total < 0 {
		return 0
	}
	return Binomial(total+length-1, length-1)
}

// Binomial returns n choose k, or 0 when k is out of range.
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
