package graph

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dataassoc/assoc"
	"github.com/banshee-data/dataassoc/assoc/invariants"
)

// ScorePairwiseConsistency evaluates the invariant on every unordered
// pair of candidate associations and returns the dense consistency
// graph. M[k,l] is the invariant score for associations k and l, the
// diagonal is fixed at 1, and C marks the nonzero support of M.
//
// Two associations that claim the same element on either side can never
// both be correct, so such pairs are scored 0 without consulting the
// invariant.
//
// When the invariant reports itself thread-safe, rows of the upper
// triangle are scored on a pool of workers; otherwise evaluation is
// strictly serial. Fewer than two associations yield a graph with no
// off-diagonal entries.
func ScorePairwiseConsistency(inv invariants.PairwiseInvariant, d1, d2 *mat.Dense, a assoc.Association) (*Dense, error) {
	if err := validateScoringInputs(inv, d1, d2, a); err != nil {
		return nil, err
	}

	n := len(a)
	if n == 0 {
		return &Dense{}, nil
	}

	m := mat.NewSymDense(n, nil)
	c := mat.NewSymDense(n, nil)
	for k := 0; k < n; k++ {
		m.SetSym(k, k, 1)
		c.SetSym(k, k, 1)
	}

	// Workers write disjoint upper-triangle rows, so no locking is
	// needed around SetSym.
	scoreUpperRows(inv, d1, d2, a, func(k, l int, s float64) {
		m.SetSym(k, l, s)
		c.SetSym(k, l, 1)
	})

	return &Dense{M: m, C: c}, nil
}

// ScoreSparsePairwiseConsistency has identical semantics to
// ScorePairwiseConsistency but stores only nonzero scores, in
// compressed sparse row form. Suitable for large candidate sets where
// most pairs are incompatible.
func ScoreSparsePairwiseConsistency(inv invariants.PairwiseInvariant, d1, d2 *mat.Dense, a assoc.Association) (*Sparse, error) {
	if err := validateScoringInputs(inv, d1, d2, a); err != nil {
		return nil, err
	}

	n := len(a)
	if n == 0 {
		return &Sparse{}, nil
	}

	type entry struct {
		col int
		val float64
	}

	// Upper-triangle scores per row, gathered in parallel.
	upper := make([][]entry, n)
	scoreUpperRows(inv, d1, d2, a, func(k, l int, s float64) {
		upper[k] = append(upper[k], entry{col: l, val: s})
	})

	// Count stored entries per row: one diagonal, the row's own upper
	// entries, and the mirror of every upper entry pointing at it.
	counts := make([]int, n)
	for k := 0; k < n; k++ {
		counts[k] += 1 + len(upper[k])
		for _, e := range upper[k] {
			counts[e.col]++
		}
	}

	nnz := 0
	rowPtr := make([]int, n+1)
	for k := 0; k < n; k++ {
		rowPtr[k] = nnz
		nnz += counts[k]
	}
	rowPtr[n] = nnz

	cols := make([]int, nnz)
	vals := make([]float64, nnz)
	next := make([]int, n)
	copy(next, rowPtr[:n])

	// Walk rows in ascending order. Mirror entries for row r arrive
	// from rows k < r before row r places its own diagonal and upper
	// entries, which keeps every row sorted by column.
	for k := 0; k < n; k++ {
		cols[next[k]] = k
		vals[next[k]] = 1
		next[k]++
		for _, e := range upper[k] {
			cols[next[k]] = e.col
			vals[next[k]] = e.val
			next[k]++

			cols[next[e.col]] = k
			vals[next[e.col]] = e.val
			next[e.col]++
		}
	}

	return &Sparse{n: n, rowPtr: rowPtr, cols: cols, vals: vals}, nil
}

// scoreUpperRows evaluates the invariant for every upper-triangle pair
// (k,l), l > k, invoking emit for each nonzero score. emit may be called
// concurrently for distinct k but never for the same k.
func scoreUpperRows(inv invariants.PairwiseInvariant, d1, d2 *mat.Dense, a assoc.Association, emit func(k, l int, s float64)) {
	n := len(a)

	scoreRow := func(k int) {
		pi := a[k]
		d1i := d1.ColView(pi.I1)
		d2i := d2.ColView(pi.I2)
		for l := k + 1; l < n; l++ {
			pj := a[l]
			if pi.I1 == pj.I1 || pi.I2 == pj.I2 {
				continue
			}
			s := inv.Eval(d1i, d1.ColView(pj.I1), d2i, d2.ColView(pj.I2))
			if s > 0 {
				emit(k, l, s)
			}
		}
	}

	workers := runtime.GOMAXPROCS(0)
	if !inv.ThreadSafe() {
		// Serial evaluation is a correctness requirement here, not a
		// tuning choice: a non-thread-safe invariant may sit on shared
		// interpreter or callback state.
		workers = 1
	}
	if workers > n {
		workers = n
	}

	if workers <= 1 {
		for k := 0; k < n; k++ {
			scoreRow(k)
		}
		return
	}

	// Strided row assignment balances the triangular workload.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for k := start; k < n; k += workers {
				scoreRow(k)
			}
		}(w)
	}
	wg.Wait()
}

func validateScoringInputs(inv invariants.PairwiseInvariant, d1, d2 *mat.Dense, a assoc.Association) error {
	if inv == nil {
		return fmt.Errorf("graph: nil invariant")
	}
	if d1 == nil || d2 == nil {
		return fmt.Errorf("graph: nil observation data")
	}
	_, n1 := d1.Dims()
	_, n2 := d2.Dims()
	if err := a.Validate(n1, n2); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	return nil
}
