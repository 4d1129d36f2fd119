package map2rec

import "strings"

func Convert(kind string, in map[string]any) (any, error) {
	switch kind {
	case "ga":
		return ConvertGA(in), nil
	case "energy":
		return ConvertEnergy(in), nil
	default:
		return nil, ErrUnsupportedKind
	}
}

// ConvertGA reads a loosely typed "ga" section. Unknown keys and values of
// the wrong type are ignored and leave the default in place.
func ConvertGA(in map[string]any) GARecord {
	out := defaultGARecord()
	for key, val := range in {
		switch key {
		case "population_size", "population", "pop":
			if n, ok := asInt(val); ok {
				out.PopulationSize = n
			}
		case "generations", "gens":
			if n, ok := asInt(val); ok {
				out.Generations = n
			}
		case "epsilon", "eps":
			if f, ok := asFloat64(val); ok {
				out.Epsilon = f
			}
		case "seed":
			if n, ok := asInt64(val); ok {
				out.Seed = n
			}
		case "workers":
			if n, ok := asInt(val); ok {
				out.Workers = n
			}
		case "selection":
			if s, ok := asString(val); ok {
				out.Selection = s
			}
		case "tournament_size":
			if n, ok := asInt(val); ok {
				out.TournamentSize = n
			}
		case "crossover":
			if s, ok := asString(val); ok {
				out.Crossover = s
			}
		case "mutation":
			if s, ok := asString(val); ok {
				out.Mutation = s
			}
		case "max_offspring_attempts":
			if n, ok := asInt(val); ok {
				out.MaxOffspringAttempts = n
			}
		case "log_every":
			if n, ok := asInt(val); ok {
				out.LogEvery = n
			}
		}
	}
	return out
}

// ConvertEnergy reads an "energy" section. Weights may be given as w1/w2/w3
// or as a three element "weights" list.
func ConvertEnergy(in map[string]any) EnergyRecord {
	out := defaultEnergyRecord()
	for key, val := range in {
		switch key {
		case "kind", "name", "energy":
			if s, ok := asString(val); ok {
				out.Kind = strings.ToLower(strings.TrimSpace(s))
			}
		case "w1":
			if f, ok := asFloat64(val); ok {
				out.W1 = f
			}
		case "w2":
			if f, ok := asFloat64(val); ok {
				out.W2 = f
			}
		case "w3":
			if f, ok := asFloat64(val); ok {
				out.W3 = f
			}
		}
	}
	if xs, ok := asFloat64s(in["weights"]); ok && len(xs) == 3 {
		out.W1, out.W2, out.W3 = xs[0], xs[1], xs[2]
	}
	return out
}
