// Package assoc defines the candidate-association data model shared by
// the consistency-graph builder and the dense-cluster solver.
//
// An Association is an ordered list of putative correspondences between
// two observation sets. Its ordering is the indexing basis for every
// downstream vector and matrix: membership weight k always refers to
// association k.
//
// Dependency rule: assoc is a leaf package. It may not import the graph
// or solver packages.
package assoc
