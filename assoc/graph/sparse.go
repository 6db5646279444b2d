package graph

// Sparse is a consistency graph in compressed sparse row form. Only
// nonzero affinity entries are stored; the binary constraint matrix C
// shares the stored support exactly (every stored entry, diagonal
// included, is a 1 in C), so a single index structure serves both
// matrices.
//
// Entries within each row are ordered by column index. The structure is
// read-only once built.
type Sparse struct {
	n      int
	rowPtr []int
	cols   []int
	vals   []float64
}

// N implements Operator.
func (g *Sparse) N() int { return g.n }

// NNZ returns the number of stored entries, diagonal included.
func (g *Sparse) NNZ() int { return len(g.vals) }

// At returns the affinity score M[k,l]. Entries outside the stored
// support are zero.
func (g *Sparse) At(k, l int) float64 {
	for idx := g.rowPtr[k]; idx < g.rowPtr[k+1]; idx++ {
		if g.cols[idx] == l {
			return g.vals[idx]
		}
		if g.cols[idx] > l {
			break
		}
	}
	return 0
}

// ConstraintAt returns C[k,l]: 1 on the stored support, else 0.
func (g *Sparse) ConstraintAt(k, l int) float64 {
	for idx := g.rowPtr[k]; idx < g.rowPtr[k+1]; idx++ {
		if g.cols[idx] == l {
			return 1
		}
		if g.cols[idx] > l {
			break
		}
	}
	return 0
}

// AffinityMulVec implements Operator.
func (g *Sparse) AffinityMulVec(dst, u []float64) {
	for k := 0; k < g.n; k++ {
		var sum float64
		for idx := g.rowPtr[k]; idx < g.rowPtr[k+1]; idx++ {
			sum += g.vals[idx] * u[g.cols[idx]]
		}
		dst[k] = sum
	}
}

// ConstraintMulVec implements Operator.
func (g *Sparse) ConstraintMulVec(dst, u []float64) {
	for k := 0; k < g.n; k++ {
		var sum float64
		for idx := g.rowPtr[k]; idx < g.rowPtr[k+1]; idx++ {
			sum += u[g.cols[idx]]
		}
		dst[k] = sum
	}
}
