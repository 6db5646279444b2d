package solver

// Default solver parameters. These match the tolerances the algorithm
// was originally tuned with and rarely need adjustment.
const (
	DefaultTolU       = 1e-8
	DefaultTolF       = 1e-9
	DefaultTolFop     = 1e-10
	DefaultMaxInIters = 200
	DefaultMaxOlIters = 50
	DefaultBeta       = 0.25
	DefaultMaxLsIters = 99
	DefaultEps        = 1e-9
)

// Params configures the dense-cluster solver. All fields are plain and
// inspectable; construct with DefaultParams and override as needed.
type Params struct {
	// TolU stops the inner loop when the membership vector moves less
	// than this between iterations.
	TolU float64
	// TolF stops the inner loop when the objective u'Mu changes less
	// than this between iterations.
	TolF float64
	// TolFop terminates the outer loop when the penalized objective
	// changes less than this between outer iterations.
	TolFop float64
	// MaxInIters bounds the inner fixed-point loop.
	MaxInIters int
	// MaxOlIters bounds the outer annealing loop.
	MaxOlIters int
	// Beta scales each increase of the binary-constraint penalty.
	Beta float64
	// MaxLsIters bounds the backtracking line search within one inner
	// update.
	MaxLsIters int
	// Eps is the numerical floor guarding divisions and activity tests.
	Eps float64
}

// DefaultParams returns solver parameters suitable for graphs built from
// the bundled invariants.
func DefaultParams() Params {
	return Params{
		TolU:       DefaultTolU,
		TolF:       DefaultTolF,
		TolFop:     DefaultTolFop,
		MaxInIters: DefaultMaxInIters,
		MaxOlIters: DefaultMaxOlIters,
		Beta:       DefaultBeta,
		MaxLsIters: DefaultMaxLsIters,
		Eps:        DefaultEps,
	}
}
