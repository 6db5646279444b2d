// Package graph builds and represents consistency graphs over candidate
// associations.
//
// A consistency graph pairs a weighted affinity matrix M (pairwise
// invariant scores, unit diagonal, entries in [0,1]) with a binary
// constraint matrix C marking which associations may co-occur. C shares
// M's support: C[k,l] = 1 exactly where M[k,l] > 0, plus the diagonal.
//
// Both a dense form (gonum symmetric matrices) and a sparse CSR form
// are provided. The two are numerically identical on overlapping
// support; the sparse form simply skips storage for zero scores. The
// solver consumes either through the Operator interface, so the
// fixed-point algorithm is written once.
package graph
