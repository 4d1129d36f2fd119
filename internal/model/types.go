package model

import "hpfold/internal/lattice"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ScoredFold pairs a fold with its energy under the run's scorer.
type ScoredFold struct {
	Fold    lattice.Fold `json:"fold"`
	Fitness float64      `json:"fitness"`
}

type GenerationDiagnostics struct {
	Generation      int     `json:"generation"`
	MeanFitness     float64 `json:"mean_fitness"`
	BestFitness     float64 `json:"best_fitness"`
	WorstFitness    float64 `json:"worst_fitness"`
	PopulationSize  int     `json:"population_size"`
	Candidates      int     `json:"candidates"`
	CrossoverCalls  int     `json:"crossover_calls"`
	OffspringCapped bool    `json:"offspring_capped,omitempty"`
	Evaluations     int     `json:"evaluations"`
}

// RunRecord is the persisted outcome of one folding run.
type RunRecord struct {
	VersionedRecord
	ID             string  `json:"id"`
	Protein        string  `json:"protein"`
	Sequence       string  `json:"sequence"`
	Fold           string  `json:"fold"`
	Fitness        float64 `json:"fitness"`
	Energy         string  `json:"energy"`
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	GenerationsRun int     `json:"generations_run"`
	Epsilon        float64 `json:"epsilon"`
	Seed           int64   `json:"seed"`
	Converged      bool    `json:"converged"`
	Evaluations    int     `json:"evaluations"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

// Population is a snapshot of scored folds at a generation.
type Population struct {
	VersionedRecord
	ID         string       `json:"id"`
	RunID      string       `json:"run_id"`
	Sequence   string       `json:"sequence"`
	Generation int          `json:"generation"`
	Members    []ScoredFold `json:"members"`
}
