package solver

// Solution is the output of one solver invocation. It is produced once
// and never mutated by the solver afterwards.
type Solution struct {
	// U is the relaxed membership vector: one non-negative weight per
	// candidate association, normalized to sum to 1.
	U []float64
	// T is the number of outer (annealing) iterations that ran.
	T int
	// IFinal is the outer iteration at which the binary penalty
	// saturated. IFinal == MaxOlIters means the iteration budget was
	// exhausted before saturation; the best achieved U and Score are
	// still returned and convergence assessment is left to the caller.
	IFinal int
	// Nodes are the association indices selected by thresholding U at
	// termination, in ascending order.
	Nodes []int
	// Score is the achieved consistency objective, the Rayleigh
	// quotient u'Mu / u'u. For an ideal clique of unit affinities it
	// approaches the clique size.
	Score float64
}
