package solver

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dataassoc/assoc/graph"
)

// FindDenseCluster finds the densest mutually-consistent cluster of the
// dense consistency graph (M, C), starting from the uniform membership
// vector. M is the affinity matrix, C the binary constraint matrix; they
// must agree in dimension. A nil M and C is the degenerate empty graph
// and yields a trivial empty Solution.
func FindDenseCluster(m, c *mat.SymDense, p Params) (Solution, error) {
	return FindDenseClusterFrom(m, c, nil, p)
}

// FindDenseClusterFrom is FindDenseCluster warm-started from an initial
// membership guess u0. A nil u0 selects the uniform vector.
func FindDenseClusterFrom(m, c *mat.SymDense, u0 []float64, p Params) (Solution, error) {
	if m == nil && c == nil {
		return Solution{}, nil
	}
	g, err := graph.NewDense(m, c)
	if err != nil {
		return Solution{}, err
	}
	if u0 != nil && len(u0) != g.N() {
		return Solution{}, fmt.Errorf("solver: initial guess has length %d, graph has %d nodes", len(u0), g.N())
	}
	return runCluster(g, u0, p), nil
}

// FindDenseClusterOfSparseGraph applies the identical algorithm to a
// sparse consistency graph, restricting every matrix-vector product to
// the stored support.
func FindDenseClusterOfSparseGraph(g *graph.Sparse, p Params) (Solution, error) {
	if g == nil {
		return Solution{}, fmt.Errorf("solver: nil sparse graph")
	}
	return runCluster(g, nil, p), nil
}

// runCluster is the operator-generic fixed-point core: projected
// gradient ascent of the penalized objective u'(M - d*Cb)u on the
// non-negative shell, with the penalty d annealed upward across outer
// iterations until the constraint graph is respected. Cb is the binary
// complement of C; its product with u is formed implicitly as
// sum(u) - C*u, which keeps the sparse path free of dense work.
func runCluster(op graph.Operator, u0 []float64, p Params) Solution {
	n := op.N()
	if n == 0 {
		return Solution{}
	}

	eps := p.Eps
	if eps <= 0 {
		eps = DefaultEps
	}

	u := make([]float64, n)
	if u0 != nil {
		copy(u, u0)
		for k := range u {
			if u[k] < 0 {
				u[k] = 0
			}
		}
	} else {
		for k := range u {
			u[k] = 1 / float64(n)
		}
	}
	normalizeShell(u, eps)

	mu := make([]float64, n)
	cu := make([]float64, n)
	grad := make([]float64, n)
	unew := make([]float64, n)
	munew := make([]float64, n)
	cunew := make([]float64, n)

	op.AffinityMulVec(mu, u)
	op.ConstraintMulVec(cu, u)
	sumU := floats.Sum(u)

	// Start the penalty at the smallest affinity-to-violation ratio so
	// that the first outer iteration already discourages the worst
	// constraint violations without flattening the objective.
	d := 0.0
	if r, active := minViolationRatio(u, mu, cu, sumU, eps); active {
		d = r
	}

	t := 0
	ifinal := p.MaxOlIters
	fop := math.Inf(-1)

	for i := 0; i < p.MaxOlIters; i++ {
		t = i + 1
		f := penalizedObjective(u, mu, cu, sumU, d)

		// Inner fixed-point loop at fixed penalty d.
		for j := 0; j < p.MaxInIters; j++ {
			for k := 0; k < n; k++ {
				grad[k] = mu[k] - d*(sumU-cu[k])
			}

			// Backtracking line search: halve the step until the
			// penalized objective stops decreasing.
			alpha := 1.0
			var fnew, sumUnew float64
			for ls := 0; ; ls++ {
				for k := 0; k < n; k++ {
					unew[k] = u[k] + alpha*grad[k]
					if unew[k] < 0 {
						unew[k] = 0
					}
				}
				normalizeShell(unew, eps)
				op.AffinityMulVec(munew, unew)
				op.ConstraintMulVec(cunew, unew)
				sumUnew = floats.Sum(unew)
				fnew = penalizedObjective(unew, munew, cunew, sumUnew, d)
				if fnew >= f || ls >= p.MaxLsIters {
					break
				}
				alpha /= 2
			}

			deltaF := fnew - f
			var du float64
			for k := 0; k < n; k++ {
				dd := unew[k] - u[k]
				du += dd * dd
			}
			du = math.Sqrt(du)

			u, unew = unew, u
			mu, munew = munew, mu
			cu, cunew = cunew, cu
			sumU = sumUnew
			f = fnew

			if du < p.TolU || math.Abs(deltaF) < p.TolF {
				break
			}
		}

		// Penalty saturation: no entry with mass still violates the
		// constraint graph.
		r, active := minViolationRatio(u, mu, cu, sumU, eps)
		if !active {
			ifinal = i
			break
		}
		// Projected-operator stall across outer iterations.
		if !math.IsInf(fop, -1) && math.Abs(f-fop) < p.TolFop {
			ifinal = i
			break
		}
		fop = f

		// Anneal: raise d by the smallest step that deactivates a
		// violated entry, scaled by Beta.
		dd := p.Beta * r
		if dd < eps {
			dd = eps
		}
		d += dd
	}

	// Consistency score of the final vector: the Rayleigh quotient of M,
	// which u's unit 2-norm reduces to a single dot product.
	score := floats.Dot(u, mu)

	nodes := topWeightNodes(u, clusterSize(score, n))

	// Report membership on the probability simplex.
	if s := floats.Sum(u); s > eps {
		floats.Scale(1/s, u)
	}

	return Solution{U: u, T: t, IFinal: ifinal, Nodes: nodes, Score: score}
}

// penalizedObjective evaluates u'(M - d*Cb)u given the cached products
// M*u and C*u. The complement term expands to sum(u)^2 - u'Cu.
func penalizedObjective(u, mu, cu []float64, sumU, d float64) float64 {
	return floats.Dot(u, mu) - d*(sumU*sumU-floats.Dot(u, cu))
}

// minViolationRatio scans for entries carrying mass whose constraint
// complement is active, returning the smallest ratio of affinity mass to
// violation mass. active is false when the constraint graph is fully
// satisfied at u.
func minViolationRatio(u, mu, cu []float64, sumU, eps float64) (r float64, active bool) {
	r = math.Inf(1)
	for k := range u {
		cbu := sumU - cu[k]
		if cbu <= eps || u[k] <= eps {
			continue
		}
		active = true
		if q := math.Abs(mu[k] / cbu); q < r {
			r = q
		}
	}
	if !active {
		return 0, false
	}
	return r, true
}

// normalizeShell projects u onto the non-negative unit 2-norm shell,
// guarding the division with eps.
func normalizeShell(u []float64, eps float64) {
	norm := floats.Norm(u, 2)
	if norm < eps {
		norm = eps
	}
	floats.Scale(1/norm, u)
}

// clusterSize estimates the consistent-cluster cardinality from the
// final score. For unit-affinity cliques the Rayleigh quotient equals
// the clique size; rounding keeps the estimate stable under the small
// attenuation real affinities introduce.
func clusterSize(score float64, n int) int {
	omega := int(math.Round(score))
	if omega < 1 {
		omega = 1
	}
	if omega > n {
		omega = n
	}
	return omega
}

// topWeightNodes returns the indices of the k largest membership
// weights, ties broken toward the lower index, in ascending index order.
func topWeightNodes(u []float64, k int) []int {
	idx := make([]int, len(u))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if u[idx[a]] != u[idx[b]] {
			return u[idx[a]] > u[idx[b]]
		}
		return idx[a] < idx[b]
	})
	nodes := idx[:k]
	sort.Ints(nodes)
	return nodes
}
