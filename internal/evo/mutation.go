package evo

import (
	"math/rand"

	"hpfold/internal/lattice"
)

// UniformMutation replaces each non-anchor turn, with probability 1/(n-2),
// by one of the two other turns. If the mutated fold collides the whole
// mutation is discarded and the input is returned.
type UniformMutation struct{}

func (UniformMutation) Name() string {
	return "uniform"
}

func (UniformMutation) Mutate(rng *rand.Rand, fold lattice.Fold) lattice.Fold {
	n := fold.Len()
	if n <= 2 {
		return fold
	}
	rate := 1 / float64(n-2)

	turns := []byte(fold)
	for i := 1; i < n; i++ {
		if rng.Float64() < rate {
			turns[i] = byte(otherMove(rng, lattice.Turn(turns[i])))
		}
	}
	mutated := lattice.Fold(turns)
	if !lattice.IsSelfAvoiding(mutated) {
		return fold
	}
	return mutated
}

func otherMove(rng *rand.Rand, current lattice.Turn) lattice.Turn {
	options := make([]lattice.Turn, 0, len(lattice.Moves)-1)
	for _, m := range lattice.Moves {
		if m != current {
			options = append(options, m)
		}
	}
	return options[rng.Intn(len(options))]
}
