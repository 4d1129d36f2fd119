package evo

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"hpfold/internal/energy"
	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

const (
	DefaultCrossoverPoints = 2
	DefaultLogEvery        = 5
	// offspringAttemptsPerMember bounds the offspring loop at
	// offspringAttemptsPerMember*PopulationSize crossover calls by default.
	offspringAttemptsPerMember = 100
)

type RunResult struct {
	Best              ScoredFold
	InitialPopulation []ScoredFold
	FinalPopulation   []ScoredFold
	// MeanByGeneration[0] is the initial population's mean fitness.
	MeanByGeneration []float64
	BestByGeneration []float64
	Diagnostics      []GenerationDiagnostics
	GenerationsRun   int
	Converged        bool
	Evaluations      int
}

type MonitorConfig struct {
	Sequence hp.Sequence
	Fitness  energy.Function
	Selector Selector
	Mutation Mutator
	// Crossover defaults to two-point crossover.
	Crossover      Recombiner
	PopulationSize int
	Generations    int
	Epsilon        float64
	Workers        int
	Seed           int64
	// Rand overrides Seed when set.
	Rand                 *rand.Rand
	MaxSampleAttempts    int
	MaxOffspringAttempts int
	// Initial seeds the first population. Duplicates are dropped and the
	// sampler tops it up to PopulationSize.
	Initial  []lattice.Fold
	Log      bool
	LogEvery int
	Logger   *slog.Logger
}

// PopulationMonitor runs the generational search for one sequence.
type PopulationMonitor struct {
	cfg       MonitorConfig
	rng       *rand.Rand
	evaluator *Evaluator
	logger    *slog.Logger
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Sequence.Len() == 0 {
		return nil, hp.ErrEmptySequence
	}
	if cfg.Sequence.Len() <= 2 {
		return nil, fmt.Errorf("%w: got %d", ErrMutationRateUndefined, cfg.Sequence.Len())
	}
	if cfg.Fitness == nil {
		return nil, fmt.Errorf("fitness function is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.Generations < 0 {
		return nil, fmt.Errorf("generations must be >= 0")
	}
	if cfg.Epsilon < 0 || math.IsNaN(cfg.Epsilon) {
		return nil, fmt.Errorf("epsilon must be >= 0")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Selector == nil {
		cfg.Selector = TournamentSelector{TournamentSize: DefaultTournamentSize}
	}
	if cfg.Mutation == nil {
		cfg.Mutation = UniformMutation{}
	}
	if cfg.Crossover == nil {
		cfg.Crossover = PointCrossover{Points: DefaultCrossoverPoints}
	}
	if cfg.MaxSampleAttempts <= 0 {
		cfg.MaxSampleAttempts = DefaultMaxSampleAttempts
	}
	if cfg.MaxOffspringAttempts <= 0 {
		cfg.MaxOffspringAttempts = offspringAttemptsPerMember * cfg.PopulationSize
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = DefaultLogEvery
	}
	for i, fold := range cfg.Initial {
		ok, err := lattice.CheckSAW(fold, cfg.Sequence)
		if err != nil {
			return nil, fmt.Errorf("initial fold %d: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("initial fold %d: %s is not self-avoiding", i, fold)
		}
	}

	evaluator, err := NewEvaluator(cfg.Sequence, cfg.Fitness, cfg.Workers)
	if err != nil {
		return nil, err
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &PopulationMonitor{
		cfg:       cfg,
		rng:       rng,
		evaluator: evaluator,
		logger:    logger,
	}, nil
}

func (m *PopulationMonitor) Run(ctx context.Context) (RunResult, error) {
	initial, err := m.initialPopulation()
	if err != nil {
		return RunResult{}, err
	}
	population, err := m.evaluator.Score(ctx, initial)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{
		InitialPopulation: append([]ScoredFold(nil), population...),
		MeanByGeneration:  make([]float64, 0, m.cfg.Generations+1),
		BestByGeneration:  make([]float64, 0, m.cfg.Generations+1),
		Diagnostics:       make([]GenerationDiagnostics, 0, m.cfg.Generations),
	}
	lastMean := meanFitness(population)
	result.MeanByGeneration = append(result.MeanByGeneration, lastMean)
	result.BestByGeneration = append(result.BestByGeneration, bestOf(population).Fitness)
	m.logGeneration(0, lastMean)

	for gen := 0; gen < m.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		offspring, stats, err := m.breed(population)
		if err != nil {
			return RunResult{}, err
		}
		merged := make([]lattice.Fold, 0, len(offspring)+len(population))
		merged = append(merged, offspring...)
		for _, member := range population {
			merged = append(merged, member.Fold)
		}
		scored, err := m.evaluator.Score(ctx, merged)
		if err != nil {
			return RunResult{}, err
		}
		candidates := dedupeScored(scored)
		population = SelectSurvivors(candidates, m.cfg.PopulationSize)

		mean := meanFitness(population)
		best := bestOf(population)
		result.MeanByGeneration = append(result.MeanByGeneration, mean)
		result.BestByGeneration = append(result.BestByGeneration, best.Fitness)
		result.Diagnostics = append(result.Diagnostics, GenerationDiagnostics{
			Generation:      gen + 1,
			MeanFitness:     mean,
			BestFitness:     best.Fitness,
			WorstFitness:    population[len(population)-1].Fitness,
			PopulationSize:  len(population),
			Candidates:      len(candidates),
			CrossoverCalls:  stats.crossoverCalls,
			OffspringCapped: stats.capped,
			Evaluations:     m.evaluator.Evaluations(),
		})
		result.GenerationsRun = gen + 1
		if stats.capped {
			m.logger.Debug("offspring loop capped",
				slog.Int("generation", gen+1),
				slog.Int("distinct_offspring", stats.distinct),
				slog.Int("population_size", m.cfg.PopulationSize),
			)
		}

		if math.Abs(lastMean-mean) < m.cfg.Epsilon {
			result.Converged = true
			m.logGeneration(gen+1, mean)
			break
		}
		if (gen+1)%m.cfg.LogEvery == 0 {
			m.logGeneration(gen+1, mean)
		}
		lastMean = mean
	}

	result.FinalPopulation = population
	result.Best = bestOf(population)
	result.Evaluations = m.evaluator.Evaluations()
	return result, nil
}

func (m *PopulationMonitor) initialPopulation() ([]lattice.Fold, error) {
	population := make([]lattice.Fold, 0, m.cfg.PopulationSize)
	seen := make(map[lattice.Fold]struct{}, len(m.cfg.Initial))
	for _, fold := range m.cfg.Initial {
		if len(population) == m.cfg.PopulationSize {
			break
		}
		if _, ok := seen[fold]; ok {
			continue
		}
		seen[fold] = struct{}{}
		population = append(population, fold)
	}
	for len(population) < m.cfg.PopulationSize {
		fold, err := RandomValidFold(m.rng, m.cfg.Sequence, m.cfg.MaxSampleAttempts)
		if err != nil {
			return nil, err
		}
		population = append(population, fold)
	}
	return population, nil
}

type breedStats struct {
	crossoverCalls int
	distinct       int
	capped         bool
}

// breed runs crossover and mutation until PopulationSize distinct offspring
// exist or the attempt cap is reached.
func (m *PopulationMonitor) breed(population []ScoredFold) ([]lattice.Fold, breedStats, error) {
	var stats breedStats
	offspring := make([]lattice.Fold, 0, m.cfg.PopulationSize+1)
	distinct := make(map[lattice.Fold]struct{}, m.cfg.PopulationSize)

	for len(distinct) < m.cfg.PopulationSize {
		if stats.crossoverCalls >= m.cfg.MaxOffspringAttempts {
			stats.capped = true
			break
		}
		parent1, err := m.cfg.Selector.PickParent(m.rng, population)
		if err != nil {
			return nil, stats, err
		}
		parent2, err := m.cfg.Selector.PickParent(m.rng, population)
		if err != nil {
			return nil, stats, err
		}
		child1, child2 := m.cfg.Crossover.Recombine(m.rng, parent1, parent2)
		stats.crossoverCalls++
		for _, child := range [2]lattice.Fold{child1, child2} {
			mutated := m.cfg.Mutation.Mutate(m.rng, child)
			offspring = append(offspring, mutated)
			distinct[mutated] = struct{}{}
		}
	}
	stats.distinct = len(distinct)
	return offspring, stats, nil
}

func (m *PopulationMonitor) logGeneration(generation int, mean float64) {
	if !m.cfg.Log {
		return
	}
	m.logger.Info("generation",
		slog.Int("generation", generation),
		slog.Float64("mean_fitness", mean),
	)
}

func meanFitness(population []ScoredFold) float64 {
	if len(population) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range population {
		total += item.Fitness
	}
	return total / float64(len(population))
}

// bestOf returns the first member with the lowest fitness.
func bestOf(population []ScoredFold) ScoredFold {
	if len(population) == 0 {
		return ScoredFold{}
	}
	best := population[0]
	for _, item := range population[1:] {
		if item.Fitness < best.Fitness {
			best = item
		}
	}
	return best
}
