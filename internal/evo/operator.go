package evo

import (
	"errors"
	"math/rand"

	"hpfold/internal/lattice"
	"hpfold/internal/model"
)

type ScoredFold = model.ScoredFold

type GenerationDiagnostics = model.GenerationDiagnostics

var (
	// ErrMutationRateUndefined rejects chains whose per-position mutation
	// probability 1/(n-2) does not exist.
	ErrMutationRateUndefined = errors.New("mutation rate undefined: chain length must be > 2")
	// ErrSamplingExhausted is returned when rejection sampling hits its cap.
	ErrSamplingExhausted = errors.New("no self-avoiding fold found within sampling attempts")
)

// Mutator rewrites a fold. Implementations must return a self-avoiding fold
// whenever their input is self-avoiding.
type Mutator interface {
	Name() string
	Mutate(rng *rand.Rand, fold lattice.Fold) lattice.Fold
}

// Recombiner produces two self-avoiding offspring from two self-avoiding
// parents.
type Recombiner interface {
	Name() string
	Recombine(rng *rand.Rand, parent1, parent2 ScoredFold) (lattice.Fold, lattice.Fold)
}
