package evo

import (
	"context"
	"fmt"
	"sync"

	"hpfold/internal/energy"
	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

// Evaluator scores folds of one sequence, caching each distinct fold's
// fitness. Scoring is pure, so cached values never go stale.
type Evaluator struct {
	seq     hp.Sequence
	fitness energy.Function
	workers int

	cache       map[lattice.Fold]float64
	evaluations int
}

func NewEvaluator(seq hp.Sequence, fitness energy.Function, workers int) (*Evaluator, error) {
	if fitness == nil {
		return nil, fmt.Errorf("fitness function is required")
	}
	if workers <= 0 {
		workers = 1
	}
	return &Evaluator{
		seq:     seq,
		fitness: fitness,
		workers: workers,
		cache:   make(map[lattice.Fold]float64),
	}, nil
}

// Evaluations returns how many times the fitness function has been called.
func (e *Evaluator) Evaluations() int {
	return e.evaluations
}

// Score returns folds paired with their fitness, in input order. Folds not yet
// cached are scored on the worker pool.
func (e *Evaluator) Score(ctx context.Context, folds []lattice.Fold) ([]ScoredFold, error) {
	scored := make([]ScoredFold, len(folds))
	var pending []lattice.Fold
	queued := make(map[lattice.Fold]struct{})
	for i, fold := range folds {
		scored[i].Fold = fold
		if _, ok := e.cache[fold]; ok {
			continue
		}
		if _, ok := queued[fold]; ok {
			continue
		}
		queued[fold] = struct{}{}
		pending = append(pending, fold)
	}

	if len(pending) > 0 {
		values, err := e.evaluate(ctx, pending)
		if err != nil {
			return nil, err
		}
		for i, fold := range pending {
			e.cache[fold] = values[i]
		}
		e.evaluations += len(pending)
	}

	for i := range scored {
		scored[i].Fitness = e.cache[scored[i].Fold]
	}
	return scored, nil
}

func (e *Evaluator) evaluate(ctx context.Context, folds []lattice.Fold) ([]float64, error) {
	type job struct {
		idx  int
		fold lattice.Fold
	}
	type result struct {
		idx     int
		fitness float64
		err     error
	}

	jobs := make(chan job)
	results := make(chan result, len(folds))

	workerCount := e.workers
	if workerCount > len(folds) {
		workerCount = len(folds)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				fitness, err := e.fitness(j.fold, e.seq)
				if err != nil {
					results <- result{idx: j.idx, err: fmt.Errorf("score fold %s: %w", j.fold, err)}
					continue
				}
				results <- result{idx: j.idx, fitness: fitness}
			}
		}()
	}

	for i := range folds {
		jobs <- job{idx: i, fold: folds[i]}
	}
	close(jobs)

	wg.Wait()
	close(results)

	values := make([]float64, len(folds))
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		values[res.idx] = res.fitness
	}
	return values, nil
}
