package solver

import (
	"fmt"

	"github.com/banshee-data/dataassoc/assoc"
)

// SelectionPolicy decides which associations a Solution's membership
// vector promotes to inliers. The zero value selects the solver's own
// node set.
type SelectionPolicy struct {
	mode   selectionMode
	cutoff float64
}

type selectionMode int

const (
	selectSolverNodes selectionMode = iota
	selectRelative
	selectAbsolute
)

// SelectSolverNodes selects exactly the node set the solver identified
// at penalty saturation. This is the default policy.
func SelectSolverNodes() SelectionPolicy {
	return SelectionPolicy{mode: selectSolverNodes}
}

// SelectRelative selects associations whose membership weight is at
// least ratio times the maximum weight. ratio must lie in (0, 1].
func SelectRelative(ratio float64) SelectionPolicy {
	return SelectionPolicy{mode: selectRelative, cutoff: ratio}
}

// SelectAbsolute selects associations whose membership weight meets a
// fixed cutoff.
func SelectAbsolute(cutoff float64) SelectionPolicy {
	return SelectionPolicy{mode: selectAbsolute, cutoff: cutoff}
}

// SelectInlierAssociations filters the original candidate list down to
// the inliers identified by the solver's node set. Deterministic for
// identical inputs.
func SelectInlierAssociations(soln Solution, a assoc.Association) (assoc.Association, error) {
	return SelectInlierAssociationsBy(soln, a, SelectSolverNodes())
}

// SelectInlierAssociationsBy filters the candidate list under an
// explicit selection policy. The returned associations preserve their
// original order.
func SelectInlierAssociationsBy(soln Solution, a assoc.Association, policy SelectionPolicy) (assoc.Association, error) {
	if len(soln.U) != 0 && len(soln.U) != len(a) {
		return nil, fmt.Errorf("solver: membership length %d does not match %d associations", len(soln.U), len(a))
	}

	switch policy.mode {
	case selectSolverNodes:
		inliers := make(assoc.Association, 0, len(soln.Nodes))
		for _, k := range soln.Nodes {
			if k < 0 || k >= len(a) {
				return nil, fmt.Errorf("solver: node index %d out of range for %d associations", k, len(a))
			}
			inliers = append(inliers, a[k])
		}
		return inliers, nil

	case selectRelative:
		if policy.cutoff <= 0 || policy.cutoff > 1 {
			return nil, fmt.Errorf("solver: relative selection ratio %v outside (0,1]", policy.cutoff)
		}
		var max float64
		for _, w := range soln.U {
			if w > max {
				max = w
			}
		}
		if max == 0 {
			// No association carries any mass; a zero cutoff would
			// select everything.
			return assoc.Association{}, nil
		}
		return selectByWeight(soln.U, a, policy.cutoff*max), nil

	case selectAbsolute:
		return selectByWeight(soln.U, a, policy.cutoff), nil
	}

	return nil, fmt.Errorf("solver: unknown selection policy")
}

func selectByWeight(u []float64, a assoc.Association, cutoff float64) assoc.Association {
	inliers := make(assoc.Association, 0, len(a))
	for k, w := range u {
		if w >= cutoff {
			inliers = append(inliers, a[k])
		}
	}
	return inliers
}
