package evo

import (
	"fmt"
	"math/rand"
	"sort"
)

// Selector chooses a parent from the current population.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, population []ScoredFold) (ScoredFold, error)
}

// DefaultTournamentSize is K for TournamentSelector when unset.
const DefaultTournamentSize = 2

// TournamentSelector samples TournamentSize members with replacement and
// returns the one with the lowest fitness. The first sampled member wins ties.
type TournamentSelector struct {
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, population []ScoredFold) (ScoredFold, error) {
	if rng == nil {
		return ScoredFold{}, fmt.Errorf("random source is required")
	}
	if len(population) == 0 {
		return ScoredFold{}, fmt.Errorf("population is empty")
	}

	tournamentSize := s.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = DefaultTournamentSize
	}

	best := population[rng.Intn(len(population))]
	for i := 1; i < tournamentSize; i++ {
		candidate := population[rng.Intn(len(population))]
		if candidate.Fitness < best.Fitness {
			best = candidate
		}
	}
	return best, nil
}

// SelectSurvivors collapses duplicate folds, orders the rest by ascending
// fitness (ties broken by the fold encoding) and keeps at most size of them.
// A smaller result is returned unchanged when fewer distinct folds exist.
func SelectSurvivors(candidates []ScoredFold, size int) []ScoredFold {
	distinct := dedupeScored(candidates)
	sortScored(distinct)
	if size >= 0 && len(distinct) > size {
		distinct = distinct[:size]
	}
	return distinct
}

func dedupeScored(scored []ScoredFold) []ScoredFold {
	seen := make(map[string]struct{}, len(scored))
	out := make([]ScoredFold, 0, len(scored))
	for _, item := range scored {
		key := string(item.Fold)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func sortScored(scored []ScoredFold) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Fitness == scored[j].Fitness {
			return scored[i].Fold < scored[j].Fold
		}
		return scored[i].Fitness < scored[j].Fitness
	})
}
