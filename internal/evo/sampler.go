package evo

import (
	"fmt"
	"math/rand"

	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

// DefaultMaxSampleAttempts caps rejection sampling in RandomValidFold.
const DefaultMaxSampleAttempts = 1_000_000

// RandomValidFold draws every non-anchor turn uniformly from {L, R, F} and
// redraws the whole fold until it is self-avoiding.
func RandomValidFold(rng *rand.Rand, seq hp.Sequence, maxAttempts int) (lattice.Fold, error) {
	if rng == nil {
		return "", fmt.Errorf("random source is required")
	}
	n := seq.Len()
	if n == 0 {
		return "", hp.ErrEmptySequence
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxSampleAttempts
	}

	moves := make([]lattice.Turn, n-1)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		for i := range moves {
			moves[i] = lattice.Moves[rng.Intn(len(lattice.Moves))]
		}
		fold := lattice.NewFold(moves)
		if lattice.IsSelfAvoiding(fold) {
			return fold, nil
		}
	}
	return "", fmt.Errorf("%w: length=%d attempts=%d", ErrSamplingExhausted, n, maxAttempts)
}
