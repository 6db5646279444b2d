package graph

// Operator is the read-only view of a consistency graph required by the
// dense-cluster solver: the problem size and matrix-vector products
// against the affinity matrix M and the binary constraint matrix C.
//
// Implementations must be safe for concurrent readers once built; the
// solver never mutates a graph.
type Operator interface {
	// N returns the number of candidate associations (graph nodes).
	N() int

	// AffinityMulVec stores M*u into dst. len(dst) == len(u) == N().
	AffinityMulVec(dst, u []float64)

	// ConstraintMulVec stores C*u into dst. len(dst) == len(u) == N().
	ConstraintMulVec(dst, u []float64)
}
