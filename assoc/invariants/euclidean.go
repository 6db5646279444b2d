package invariants

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default EuclideanDistance parameters, tuned for point clouds measured
// in metres.
const (
	DefaultEuclideanSigma   = 0.01
	DefaultEuclideanEpsilon = 0.06
	DefaultEuclideanMinDist = 0.0
)

// EuclideanDistance scores two candidate associations by how well they
// preserve pairwise Euclidean distance: if (i1,i2) and (j1,j2) are both
// correct under a rigid transform, the distance between elements i1 and
// j1 in set 1 equals the distance between i2 and j2 in set 2. The
// absolute difference of the two distances is pushed through a Gaussian
// kernel of width Sigma, and zeroed beyond Epsilon.
type EuclideanDistance struct {
	// Sigma is the Gaussian kernel width applied to the distance
	// difference.
	Sigma float64
	// Epsilon is the hard consistency bound; differences at or above it
	// score zero.
	Epsilon float64
	// MinDist excludes degenerate pairs: if either within-set distance
	// falls below it, the pair scores zero.
	MinDist float64
}

// NewEuclideanDistance returns a EuclideanDistance invariant with the
// default parameters.
func NewEuclideanDistance() *EuclideanDistance {
	return &EuclideanDistance{
		Sigma:   DefaultEuclideanSigma,
		Epsilon: DefaultEuclideanEpsilon,
		MinDist: DefaultEuclideanMinDist,
	}
}

// Eval implements PairwiseInvariant.
func (e *EuclideanDistance) Eval(d1i, d1j, d2i, d2j mat.Vector) float64 {
	l1 := vecDist(d1i, d1j, d1i.Len())
	l2 := vecDist(d2i, d2j, d2i.Len())

	if l1 < e.MinDist || l2 < e.MinDist {
		return 0
	}

	c := math.Abs(l1 - l2)
	if c >= e.Epsilon {
		return 0
	}
	return math.Exp(-0.5 * c * c / (e.Sigma * e.Sigma))
}

// ThreadSafe implements PairwiseInvariant. EuclideanDistance is
// stateless after construction.
func (e *EuclideanDistance) ThreadSafe() bool { return true }
