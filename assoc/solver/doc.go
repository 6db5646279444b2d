// Package solver extracts the densest mutually-consistent cluster from a
// consistency graph.
//
// The underlying combinatorial problem (maximum-weight clique in the
// constraint graph) is NP-hard. The solver instead maximizes the
// continuous relaxation u'Mu over non-negative membership vectors by
// projected gradient ascent, with a homotopy penalty that is annealed
// upward across outer iterations until the binary constraint matrix C is
// respected. The result is a local stationary point, reached
// deterministically: identical inputs and parameters give identical
// solutions.
//
// The same fixed-point core serves dense and sparse graphs through
// graph.Operator; only the matrix-vector products differ.
package solver
