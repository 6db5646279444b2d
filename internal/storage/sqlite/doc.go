// Package sqlite persists benchmark runs of the association pipeline.
//
// Each run records the problem shape, solver parameters, convergence
// diagnostics and accuracy against ground truth, so parameter sweeps can
// be compared after the fact. No SQL leaks out of this package.
package sqlite
