// Package synth generates synthetic association problems with known
// ground truth for benchmarking and evaluation.
//
// A scene is a random point set observed twice: once directly, once
// through a random rigid transform with measurement noise and a number
// of outlier points that correspond to nothing. The true
// correspondences are returned alongside so that solver output can be
// scored.
package synth
