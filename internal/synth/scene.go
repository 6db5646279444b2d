package synth

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dataassoc/assoc"
)

// SceneParams configures synthetic scene generation.
type SceneParams struct {
	// Points is the number of true points observed in both sets.
	Points int
	// Outliers is the number of spurious points appended to the second
	// set.
	Outliers int
	// NoiseSigma is the standard deviation of the Gaussian measurement
	// noise added to the transformed points, in the same units as
	// Spread.
	NoiseSigma float64
	// Spread is the half-width of the cube the points are drawn from.
	Spread float64
	// Seed makes generation reproducible.
	Seed int64
}

// DefaultSceneParams returns scene parameters producing a moderately
// contaminated problem.
func DefaultSceneParams() SceneParams {
	return SceneParams{
		Points:     10,
		Outliers:   5,
		NoiseSigma: 0.002,
		Spread:     5.0,
		Seed:       1,
	}
}

// Scene is a generated association problem. D1 holds the original
// points, D2 the transformed (and contaminated) observation, one column
// per point. Truth lists the correct correspondences.
type Scene struct {
	D1    *mat.Dense
	D2    *mat.Dense
	Truth assoc.Association
}

// GenerateRigidScene draws a random point cloud, applies a random rigid
// transform (yaw rotation plus translation) with measurement noise, and
// appends outlier points to the second set. Deterministic for a given
// seed.
func GenerateRigidScene(p SceneParams) (*Scene, error) {
	if p.Points <= 0 {
		return nil, fmt.Errorf("synth: need at least one point, got %d", p.Points)
	}
	if p.Outliers < 0 {
		return nil, fmt.Errorf("synth: negative outlier count %d", p.Outliers)
	}
	if p.Spread <= 0 {
		return nil, fmt.Errorf("synth: spread must be positive, got %v", p.Spread)
	}

	rng := rand.New(rand.NewSource(p.Seed))

	d1 := mat.NewDense(3, p.Points, nil)
	for j := 0; j < p.Points; j++ {
		for i := 0; i < 3; i++ {
			d1.Set(i, j, (2*rng.Float64()-1)*p.Spread)
		}
	}

	// Random yaw plus translation.
	theta := 2 * math.Pi * rng.Float64()
	r := mat.NewDense(3, 3, []float64{
		math.Cos(theta), -math.Sin(theta), 0,
		math.Sin(theta), math.Cos(theta), 0,
		0, 0, 1,
	})
	tx := (2*rng.Float64() - 1) * 4 * p.Spread
	ty := (2*rng.Float64() - 1) * 4 * p.Spread
	tz := (2*rng.Float64() - 1) * p.Spread

	d2 := mat.NewDense(3, p.Points+p.Outliers, nil)
	var rp mat.Dense
	rp.Mul(r, d1)
	for j := 0; j < p.Points; j++ {
		d2.Set(0, j, rp.At(0, j)+tx+rng.NormFloat64()*p.NoiseSigma)
		d2.Set(1, j, rp.At(1, j)+ty+rng.NormFloat64()*p.NoiseSigma)
		d2.Set(2, j, rp.At(2, j)+tz+rng.NormFloat64()*p.NoiseSigma)
	}
	for j := p.Points; j < p.Points+p.Outliers; j++ {
		d2.Set(0, j, tx+(2*rng.Float64()-1)*2*p.Spread)
		d2.Set(1, j, ty+(2*rng.Float64()-1)*2*p.Spread)
		d2.Set(2, j, tz+(2*rng.Float64()-1)*2*p.Spread)
	}

	truth := make(assoc.Association, p.Points)
	for j := 0; j < p.Points; j++ {
		truth[j] = assoc.Pair{I1: j, I2: j}
	}

	return &Scene{D1: d1, D2: d2, Truth: truth}, nil
}

// PrecisionRecall scores a recovered association set against the ground
// truth. Precision is the fraction of recovered pairs that are true;
// recall the fraction of true pairs recovered. Both are 0 when their
// denominator is empty.
func PrecisionRecall(got, truth assoc.Association) (precision, recall float64) {
	if len(got) == 0 || len(truth) == 0 {
		return 0, 0
	}

	truthSet := make(map[assoc.Pair]struct{}, len(truth))
	for _, p := range truth {
		truthSet[p] = struct{}{}
	}

	matched := 0
	for _, p := range got {
		if _, ok := truthSet[p]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(got)), float64(matched) / float64(len(truth))
}
