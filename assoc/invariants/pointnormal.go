package invariants

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default PointNormalDistance parameters.
const (
	DefaultPointNormalSigP = 0.5
	DefaultPointNormalEpsP = 0.5
	DefaultPointNormalSigN = 0.10
	DefaultPointNormalEpsN = 0.35
)

// PointNormalDistance scores candidate associations between oriented
// points. Each descriptor is a 6-vector: position in components 0-2 and
// a unit surface normal in components 3-5. Two independent error terms
// are formed, the difference in positional distances and the difference
// in normal angles, each scored with its own Gaussian kernel; the final
// score is their product, zeroed if either error exceeds its bound.
type PointNormalDistance struct {
	// SigP and EpsP are the kernel width and hard bound for the
	// positional distance term.
	SigP float64
	EpsP float64
	// SigN and EpsN are the kernel width and hard bound for the
	// normal-angle term (radians).
	SigN float64
	EpsN float64
}

// NewPointNormalDistance returns a PointNormalDistance invariant with
// the default parameters.
func NewPointNormalDistance() *PointNormalDistance {
	return &PointNormalDistance{
		SigP: DefaultPointNormalSigP,
		EpsP: DefaultPointNormalEpsP,
		SigN: DefaultPointNormalSigN,
		EpsN: DefaultPointNormalEpsN,
	}
}

// Eval implements PairwiseInvariant.
func (p *PointNormalDistance) Eval(d1i, d1j, d2i, d2j mat.Vector) float64 {
	// Positional distances use the first three components.
	l1 := vecDist(d1i, d1j, 3)
	l2 := vecDist(d2i, d2j, 3)

	// Angle between the two normals within each set.
	alpha := normalAngle(d1i, d1j)
	beta := normalAngle(d2i, d2j)

	dp := math.Abs(l1 - l2)
	dn := math.Abs(alpha - beta)

	if dp >= p.EpsP || dn >= p.EpsN {
		return 0
	}

	sp := math.Exp(-0.5 * dp * dp / (p.SigP * p.SigP))
	sn := math.Exp(-0.5 * dn * dn / (p.SigN * p.SigN))
	return sp * sn
}

// ThreadSafe implements PairwiseInvariant.
func (p *PointNormalDistance) ThreadSafe() bool { return true }

// normalAngle returns the angle in radians between the normal parts
// (components 3-5) of two oriented-point descriptors. The dot product
// is clamped to [-1,1] so that rounding on unit normals cannot push
// acos out of domain.
func normalAngle(a, b mat.Vector) float64 {
	var dot float64
	for i := 3; i < 6 && i < a.Len() && i < b.Len(); i++ {
		dot += a.AtVec(i) * b.AtVec(i)
	}
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot)
}
