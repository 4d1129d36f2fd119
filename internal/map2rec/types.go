package map2rec

// GARecord carries the search parameters of one folding run.
type GARecord struct {
	PopulationSize       int     `json:"population_size"`
	Generations          int     `json:"generations"`
	Epsilon              float64 `json:"epsilon"`
	Seed                 int64   `json:"seed"`
	Workers              int     `json:"workers"`
	Selection            string  `json:"selection"`
	TournamentSize       int     `json:"tournament_size"`
	Crossover            string  `json:"crossover"`
	Mutation             string  `json:"mutation"`
	MaxOffspringAttempts int     `json:"max_offspring_attempts"`
	LogEvery             int     `json:"log_every"`
}

// EnergyRecord names the scorer and, for custodio, its weights.
type EnergyRecord struct {
	Kind string  `json:"kind"`
	W1   float64 `json:"w1"`
	W2   float64 `json:"w2"`
	W3   float64 `json:"w3"`
}

func defaultGARecord() GARecord {
	return GARecord{
		PopulationSize: 1000,
		Generations:    500,
		Epsilon:        1e-5,
		Workers:        1,
		Selection:      "tournament",
		TournamentSize: 2,
		Crossover:      "two_point",
		Mutation:       "uniform",
	}
}

func defaultEnergyRecord() EnergyRecord {
	return EnergyRecord{
		Kind: "custodio",
		W1:   0,
		W2:   10,
		W3:   40,
	}
}
