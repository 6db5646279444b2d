package invariants

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PairwiseInvariant scores the mutual geometric consistency of two
// candidate associations (i1,i2) and (j1,j2). The four arguments are
// element descriptors: d1i and d1j are columns i1 and j1 of the first
// observation matrix, d2i and d2j are columns i2 and j2 of the second.
//
// Eval returns a score in [0,1]. Zero means the two associations are
// structurally incompatible and must not co-occur in a solution; any
// positive value is the affinity with which they support each other.
type PairwiseInvariant interface {
	Eval(d1i, d1j, d2i, d2j mat.Vector) float64

	// ThreadSafe reports whether Eval may be called concurrently from
	// multiple workers. Implementations backed by shared mutable state
	// (or by a foreign runtime holding a global lock) must return false;
	// the graph builder then evaluates strictly serially.
	ThreadSafe() bool
}

// vecDist returns the Euclidean distance between the first n components
// of a and b. n is clamped to the vector length.
func vecDist(a, b mat.Vector, n int) float64 {
	if m := a.Len(); m < n {
		n = m
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a.AtVec(i) - b.AtVec(i)
		sum += d * d
	}
	return math.Sqrt(sum)
}
