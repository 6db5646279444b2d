package graph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch is returned when the affinity and constraint
// matrices of a graph disagree in size.
var ErrDimensionMismatch = errors.New("graph: affinity and constraint dimensions differ")

// Dense is a consistency graph backed by gonum symmetric matrices.
// M holds pairwise affinity scores with a unit diagonal; C is the
// binary constraint matrix on the same support. Both are read-only
// once the graph is built.
type Dense struct {
	M *mat.SymDense
	C *mat.SymDense
}

// NewDense wraps an affinity matrix and constraint matrix as a graph,
// validating that their dimensions agree.
func NewDense(m, c *mat.SymDense) (*Dense, error) {
	if m == nil || c == nil {
		return nil, fmt.Errorf("graph: nil matrix")
	}
	if m.SymmetricDim() != c.SymmetricDim() {
		return nil, fmt.Errorf("%w: M is %d, C is %d", ErrDimensionMismatch, m.SymmetricDim(), c.SymmetricDim())
	}
	return &Dense{M: m, C: c}, nil
}

// N implements Operator.
func (g *Dense) N() int {
	if g.M == nil {
		return 0
	}
	return g.M.SymmetricDim()
}

// AffinityMulVec implements Operator.
func (g *Dense) AffinityMulVec(dst, u []float64) {
	mulVec(g.M, dst, u)
}

// ConstraintMulVec implements Operator.
func (g *Dense) ConstraintMulVec(dst, u []float64) {
	mulVec(g.C, dst, u)
}

func mulVec(a *mat.SymDense, dst, u []float64) {
	v := mat.NewVecDense(len(dst), dst)
	v.MulVec(a, mat.NewVecDense(len(u), u))
}
