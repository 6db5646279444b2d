// Package invariants provides pairwise geometric-consistency scoring for
// candidate associations.
//
// An invariant is a quantity preserved by the (unknown) true
// transformation relating two observation sets: pairwise Euclidean
// distance survives any rigid transform, normal-angle differences
// survive rotations, and so on. Scoring how well two candidate
// associations preserve such a quantity tells us whether they can both
// be correct at the same time.
//
// New invariants are added by implementing PairwiseInvariant; the graph
// builder needs no changes.
package invariants
