package combinatorics

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPartitionsCountAndSum(t *testing.T) {
	t.Parallel()

	for length := 1; length <= 5; length++ {
		for total := 0; total <= 6; total++ {
			t.Run(fmt.Sprintf("len=%d/total=%d", length, total), func(t *testing.T) {
				t.Parallel()
				seen := make(map[string]bool)
				count := 0
				for p := range Partitions(length, total) {
					count++
					if len(p) != length {
						t.Fatalf("tuple %v has length %d, want %d", p, len(p), length)
					}
					sum := 0
					for _, v := range p {
						if v < 0 {
							t.Fatalf("tuple %v has negative entry", p)
						}
						sum += v
					}
					if sum != total {
						t.Fatalf("tuple %v sums to %d, want %d", p, sum, total)
					}
					key := fmt.Sprint(p)
					if seen[key] {
						t.Fatalf("duplicate tuple %v", p)
					}
					seen[key] = true
				}
				want := Binomial(total+length-1, length-1)
				if count != want {
					t.Errorf("yielded %d tuples, want %d", count, want)
				}
				if got := CountPartitions(length, total); got != want {
					t.Errorf("CountPartitions = %d, want %d", got, want)
				}
			})
		}
	}
}

func TestPartitionsOrder(t *testing.T) {
	t.Parallel()

	var got [][]int
	for p := range Partitions(2, 2) {
		got = append(got, p)
	}
	want := [][]int{{0, 2}, {1, 1}, {2, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Partitions(2, 2) mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionsBaseCase(t *testing.T) {
	t.Parallel()

	var got [][]int
	for p := range Partitions(1, 7) {
		got = append(got, p)
	}
	if diff := cmp.Diff([][]int{{7}}, got); diff != "" {
		t.Errorf("Partitions(1, 7) mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionsRestartable(t *testing.T) {
	t.Parallel()

	seq := Partitions(3, 3)
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != second || first != 10 {
		t.Errorf("replays yielded %d and %d tuples, want 10 each", first, second)
	}
}

func TestPartitionsEarlyStop(t *testing.T) {
	t.Parallel()

	n := 0
	for range Partitions(4, 8) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("consumed %d tuples, want 3", n)
	}
}

func TestPartitionsYieldsFreshSlices(t *testing.T) {
	t.Parallel()

	var kept [][]int
	for p := range Partitions(2, 1) {
		kept = append(kept, p)
	}
	if diff := cmp.Diff([][]int{{0, 1}, {1, 0}}, kept); diff != "" {
		t.Errorf("retained tuples were overwritten (-want +got):\n%s", diff)
	}
}

func TestPartitionsInvalid(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ length, total int }{{0, 3}, {-1, 0}, {2, -1}} {
		for p := range Partitions(tc.length, tc.total) {
			t.Errorf("Partitions(%d, %d) yielded %v, want nothing", tc.length, tc.total, p)
		}
		if got := CountPartitions(tc.length, tc.total); got != 0 {
			t.Errorf("CountPartitions(%d, %d) = %d, want 0", tc.length, tc.total, got)
		}
	}
}

func TestBinomial(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, k, want int
	}{
		{0, 0, 1},
		{5, 0, 1},
		{5, 5, 1},
		{5, 2, 10},
		{10, 3, 120},
		{20, 10, 184756},
		{3, 4, 0},
		{3, -1, 0},
	}
	for _, tt := range tests {
		if got := Binomial(tt.n, tt.k); got != tt.want {
			t.Errorf("Binomial(%d, %d) = %d, want %d", tt.n, tt.k, got, tt.want)
		}
	}
}

func TestGeneralizedEquations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m, n int
		want int
	}{
		{"single site single phonon", 1, 1, 1},
		{"single site three phonons", 1, 3, 3},
		// nb=1: (1); nb=2: (2), (1,1).
		{"two sites two phonons", 2, 2, 3},
		// nb=1: 1; nb=2: 1+1+1; nb=3: 1+2+3.
		{"three sites three phonons", 3, 3, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GeneralizedEquations(tt.m, tt.n); got != tt.want {
				t.Errorf("GeneralizedEquations(%d, %d) = %d, want %d", tt.m, tt.n, got, tt.want)
			}
		})
	}
}
