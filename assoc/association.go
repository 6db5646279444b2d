package assoc

import (
	"errors"
	"fmt"
)

// ErrInvalidSetSize is returned when a candidate generator is asked to
// pair a non-positive number of elements.
var ErrInvalidSetSize = errors.New("assoc: set sizes must be positive")

// Pair is a single candidate correspondence: element I1 of the first
// observation set paired with element I2 of the second.
type Pair struct {
	I1 int
	I2 int
}

// Association is an ordered sequence of candidate correspondences.
// Position k in the sequence is the canonical index of that candidate in
// every affinity matrix, constraint matrix and membership vector derived
// from it. Duplicate pairs are not allowed.
type Association []Pair

// CreateAllToAll returns the exhaustive candidate pairing of two sets of
// sizes n1 and n2: the Cartesian product [0,n1) x [0,n2) in row-major
// order (first index outer, second inner), total length n1*n2. It is the
// fallback hypothesis when no prior association is available.
func CreateAllToAll(n1, n2 int) (Association, error) {
	if n1 <= 0 || n2 <= 0 {
		return nil, fmt.Errorf("%w: got n1=%d, n2=%d", ErrInvalidSetSize, n1, n2)
	}

	a := make(Association, 0, n1*n2)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			a = append(a, Pair{I1: i, I2: j})
		}
	}
	return a, nil
}

// Validate checks that every pair references valid element indices for
// observation sets of sizes n1 and n2 and that no pair appears twice.
// It is called by the graph builder before any scoring work starts.
func (a Association) Validate(n1, n2 int) error {
	seen := make(map[Pair]struct{}, len(a))
	for k, p := range a {
		if p.I1 < 0 || p.I1 >= n1 {
			return fmt.Errorf("assoc: pair %d references element %d of set 1 (size %d)", k, p.I1, n1)
		}
		if p.I2 < 0 || p.I2 >= n2 {
			return fmt.Errorf("assoc: pair %d references element %d of set 2 (size %d)", k, p.I2, n2)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("assoc: duplicate pair (%d,%d) at position %d", p.I1, p.I2, k)
		}
		seen[p] = struct{}{}
	}
	return nil
}
