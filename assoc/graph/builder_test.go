package graph

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dataassoc/assoc"
	"github.com/banshee-data/dataassoc/assoc/invariants"
)

// rigidScene returns two observation sets related by a translation, with
// one extra outlier point appended to the second set, plus the
// all-to-all candidate list.
func rigidScene(t *testing.T) (*mat.Dense, *mat.Dense, assoc.Association) {
	t.Helper()

	// Three points in a right triangle.
	d1 := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	})
	// Same points translated by (10, -2, 0.5), plus an outlier.
	d2 := mat.NewDense(3, 4, []float64{
		10, 11, 10, 14.7,
		-2, -2, -1, 3.2,
		0.5, 0.5, 0.5, -1.1,
	})

	a, err := assoc.CreateAllToAll(3, 4)
	if err != nil {
		t.Fatalf("CreateAllToAll: %v", err)
	}
	return d1, d2, a
}

func TestScorePairwiseConsistency_MatrixInvariants(t *testing.T) {
	d1, d2, a := rigidScene(t)
	inv := invariants.NewEuclideanDistance()

	g, err := ScorePairwiseConsistency(inv, d1, d2, a)
	if err != nil {
		t.Fatalf("ScorePairwiseConsistency: %v", err)
	}

	n := len(a)
	if g.M.SymmetricDim() != n || g.C.SymmetricDim() != n {
		t.Fatalf("graph dimension = %d/%d, want %d", g.M.SymmetricDim(), g.C.SymmetricDim(), n)
	}

	for k := 0; k < n; k++ {
		if got := g.M.At(k, k); got != 1 {
			t.Errorf("M[%d,%d] = %v, want unit diagonal", k, k, got)
		}
		if got := g.C.At(k, k); got != 1 {
			t.Errorf("C[%d,%d] = %v, want unit diagonal", k, k, got)
		}
		for l := 0; l < n; l++ {
			m := g.M.At(k, l)
			if m < 0 || m > 1 {
				t.Errorf("M[%d,%d] = %v outside [0,1]", k, l, m)
			}
			if m != g.M.At(l, k) {
				t.Errorf("M not symmetric at (%d,%d)", k, l)
			}
			c := g.C.At(k, l)
			if c != 0 && c != 1 {
				t.Errorf("C[%d,%d] = %v, want binary", k, l, c)
			}
			if k != l && (m > 0) != (c == 1) {
				t.Errorf("C[%d,%d] = %v does not track M support (M=%v)", k, l, c, m)
			}
		}
	}
}

func TestScorePairwiseConsistency_SharedIndexPairsScoreZero(t *testing.T) {
	d1, d2, a := rigidScene(t)

	g, err := ScorePairwiseConsistency(invariants.NewEuclideanDistance(), d1, d2, a)
	if err != nil {
		t.Fatalf("ScorePairwiseConsistency: %v", err)
	}

	for k := range a {
		for l := k + 1; l < len(a); l++ {
			if a[k].I1 == a[l].I1 || a[k].I2 == a[l].I2 {
				if got := g.M.At(k, l); got != 0 {
					t.Errorf("associations %d and %d share an element but score %v", k, l, got)
				}
			}
		}
	}
}

func TestScorePairwiseConsistency_FewerThanTwoCandidates(t *testing.T) {
	d1 := mat.NewDense(3, 2, []float64{0, 1, 0, 0, 0, 0})
	d2 := mat.NewDense(3, 2, []float64{5, 6, 5, 5, 0, 0})

	g, err := ScorePairwiseConsistency(invariants.NewEuclideanDistance(), d1, d2, assoc.Association{{I1: 0, I2: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.N() != 1 {
		t.Fatalf("N = %d, want 1", g.N())
	}
	if got := g.M.At(0, 0); got != 1 {
		t.Errorf("M[0,0] = %v, want 1", got)
	}

	// Empty candidate list: trivially consistent, nothing to score.
	g, err = ScorePairwiseConsistency(invariants.NewEuclideanDistance(), d1, d2, nil)
	if err != nil {
		t.Fatalf("unexpected error for empty association: %v", err)
	}
	if g.N() != 0 {
		t.Errorf("N = %d, want 0 for empty association", g.N())
	}
}

func TestScorePairwiseConsistency_InvalidInputs(t *testing.T) {
	d1 := mat.NewDense(3, 2, nil)
	d2 := mat.NewDense(3, 2, nil)
	inv := invariants.NewEuclideanDistance()

	cases := []struct {
		name string
		a    assoc.Association
	}{
		{"out of range set 1", assoc.Association{{I1: 2, I2: 0}}},
		{"out of range set 2", assoc.Association{{I1: 0, I2: 2}}},
		{"negative index", assoc.Association{{I1: -1, I2: 0}}},
		{"duplicate pair", assoc.Association{{I1: 0, I2: 0}, {I1: 1, I2: 1}, {I1: 0, I2: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ScorePairwiseConsistency(inv, d1, d2, tc.a); err == nil {
				t.Error("expected validation error, got nil")
			}
			if _, err := ScoreSparsePairwiseConsistency(inv, d1, d2, tc.a); err == nil {
				t.Error("expected sparse validation error, got nil")
			}
		})
	}

	if _, err := ScorePairwiseConsistency(nil, d1, d2, nil); err == nil {
		t.Error("expected error for nil invariant")
	}
	if _, err := ScorePairwiseConsistency(inv, nil, d2, nil); err == nil {
		t.Error("expected error for nil observation data")
	}
}

func TestSparseDenseAgreement(t *testing.T) {
	d1, d2, a := rigidScene(t)
	inv := invariants.NewEuclideanDistance()

	dense, err := ScorePairwiseConsistency(inv, d1, d2, a)
	if err != nil {
		t.Fatalf("dense: %v", err)
	}
	sparse, err := ScoreSparsePairwiseConsistency(inv, d1, d2, a)
	if err != nil {
		t.Fatalf("sparse: %v", err)
	}

	n := len(a)
	if sparse.N() != n {
		t.Fatalf("sparse N = %d, want %d", sparse.N(), n)
	}

	for k := 0; k < n; k++ {
		for l := 0; l < n; l++ {
			if dm, sm := dense.M.At(k, l), sparse.At(k, l); dm != sm {
				t.Errorf("M[%d,%d]: dense %v, sparse %v", k, l, dm, sm)
			}
			if dc, sc := dense.C.At(k, l), sparse.ConstraintAt(k, l); dc != sc {
				t.Errorf("C[%d,%d]: dense %v, sparse %v", k, l, dc, sc)
			}
		}
	}
}

func TestOperator_MatVecAgreement(t *testing.T) {
	d1, d2, a := rigidScene(t)
	inv := invariants.NewEuclideanDistance()

	dense, err := ScorePairwiseConsistency(inv, d1, d2, a)
	if err != nil {
		t.Fatalf("dense: %v", err)
	}
	sparse, err := ScoreSparsePairwiseConsistency(inv, d1, d2, a)
	if err != nil {
		t.Fatalf("sparse: %v", err)
	}

	n := len(a)
	u := make([]float64, n)
	for k := range u {
		u[k] = float64(k+1) / float64(n)
	}

	dm := make([]float64, n)
	sm := make([]float64, n)
	dense.AffinityMulVec(dm, u)
	sparse.AffinityMulVec(sm, u)
	for k := 0; k < n; k++ {
		if math.Abs(dm[k]-sm[k]) > 1e-12 {
			t.Errorf("M*u[%d]: dense %v, sparse %v", k, dm[k], sm[k])
		}
	}

	dense.ConstraintMulVec(dm, u)
	sparse.ConstraintMulVec(sm, u)
	for k := 0; k < n; k++ {
		if math.Abs(dm[k]-sm[k]) > 1e-12 {
			t.Errorf("C*u[%d]: dense %v, sparse %v", k, dm[k], sm[k])
		}
	}
}

// serialProbe wraps an invariant, reporting itself non-thread-safe and
// failing the test if the builder ever overlaps two evaluations.
type serialProbe struct {
	t     *testing.T
	inner invariants.PairwiseInvariant

	mu     sync.Mutex
	inside bool
}

func (s *serialProbe) Eval(d1i, d1j, d2i, d2j mat.Vector) float64 {
	s.mu.Lock()
	if s.inside {
		s.mu.Unlock()
		s.t.Error("concurrent Eval on non-thread-safe invariant")
		return 0
	}
	s.inside = true
	s.mu.Unlock()

	v := s.inner.Eval(d1i, d1j, d2i, d2j)

	s.mu.Lock()
	s.inside = false
	s.mu.Unlock()
	return v
}

func (s *serialProbe) ThreadSafe() bool { return false }

func TestScorePairwiseConsistency_SerialFallback(t *testing.T) {
	d1, d2, a := rigidScene(t)
	inner := invariants.NewEuclideanDistance()

	parallel, err := ScorePairwiseConsistency(inner, d1, d2, a)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	serial, err := ScorePairwiseConsistency(&serialProbe{t: t, inner: inner}, d1, d2, a)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}

	n := len(a)
	for k := 0; k < n; k++ {
		for l := 0; l < n; l++ {
			if parallel.M.At(k, l) != serial.M.At(k, l) {
				t.Errorf("M[%d,%d] differs between parallel and serial paths", k, l)
			}
		}
	}
}

func TestNewDense_DimensionMismatch(t *testing.T) {
	m := mat.NewSymDense(3, nil)
	c := mat.NewSymDense(4, nil)
	if _, err := NewDense(m, c); err == nil {
		t.Error("expected dimension mismatch error")
	}
}
