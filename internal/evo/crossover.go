package evo

import (
	"fmt"
	"math/rand"
	"sort"

	"hpfold/internal/lattice"
)

// PointCrossover swaps the segments between Points cut positions (1 or 2).
// Cut positions are drawn uniformly from [0, n] with replacement.
//
// When one child collides it is replaced by the fitter parent; when both
// collide the parents are returned unchanged.
type PointCrossover struct {
	Points int
}

// NewPointCrossover validates the number of cut points.
func NewPointCrossover(points int) (PointCrossover, error) {
	if points != 1 && points != 2 {
		return PointCrossover{}, fmt.Errorf("crossover points must be 1 or 2, got %d", points)
	}
	return PointCrossover{Points: points}, nil
}

func (c PointCrossover) Name() string {
	if c.Points == 1 {
		return "one_point"
	}
	return "two_point"
}

func (c PointCrossover) Recombine(rng *rand.Rand, parent1, parent2 ScoredFold) (lattice.Fold, lattice.Fold) {
	p1, p2 := parent1.Fold, parent2.Fold
	n := p1.Len()

	points := c.Points
	if points != 1 {
		points = 2
	}
	cuts := make([]int, points)
	for i := range cuts {
		cuts[i] = rng.Intn(n + 1)
	}
	sort.Ints(cuts)

	var child1, child2 lattice.Fold
	if points == 1 {
		at := cuts[0]
		child1 = p1[:at] + p2[at:]
		child2 = p2[:at] + p1[at:]
	} else {
		a, b := cuts[0], cuts[1]
		child1 = p1[:a] + p2[a:b] + p1[b:]
		child2 = p2[:a] + p1[a:b] + p2[b:]
	}

	fitter := parent1
	if parent2.Fitness < parent1.Fitness {
		fitter = parent2
	}

	valid1 := lattice.IsSelfAvoiding(child1)
	valid2 := lattice.IsSelfAvoiding(child2)
	switch {
	case !valid1 && !valid2:
		return p1, p2
	case !valid1:
		return child2, fitter.Fold
	case !valid2:
		return child1, fitter.Fold
	default:
		return child1, child2
	}
}
