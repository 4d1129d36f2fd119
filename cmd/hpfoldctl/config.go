package main

import (
	"encoding/json"
	"fmt"
	"os"

	"hpfold/internal/energy"
	"hpfold/internal/map2rec"
	hpapi "hpfold/pkg/hpfold"
)

// loadRunRequestFromConfig reads a run config of the form
//
//	{"sequence": "...", "ga": {...}, "energy": {...}}
//
// Sections absent from the file leave the request at its zero value so the
// client defaults apply.
func loadRunRequestFromConfig(path string) (hpapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return hpapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return hpapi.RunRequest{}, err
	}

	var req hpapi.RunRequest
	if v, ok := asString(raw["sequence"]); ok {
		req.Sequence = v
	}
	if v, ok := asInt(raw["sample"]); ok && req.Sequence == "" {
		req.Sequence = fmt.Sprintf("%d", v)
	}
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["continue_population_id"]); ok {
		req.ContinuePopulationID = v
	}
	if v, ok := asBool(raw["log"]); ok {
		req.Log = v
	}
	if v, ok := asBool(raw["plot"]); ok {
		req.Plot = v
	}

	if gaMap, ok := raw["ga"].(map[string]any); ok {
		ga := map2rec.ConvertGA(gaMap)
		req.PopulationSize = ga.PopulationSize
		gens := ga.Generations
		req.Generations = &gens
		eps := ga.Epsilon
		req.Epsilon = &eps
		req.Seed = ga.Seed
		req.Workers = ga.Workers
		req.Selection = ga.Selection
		req.TournamentSize = ga.TournamentSize
		req.Crossover = ga.Crossover
		req.Mutation = ga.Mutation
		req.MaxOffspringAttempts = ga.MaxOffspringAttempts
		req.LogEvery = ga.LogEvery
	}

	switch section := raw["energy"].(type) {
	case string:
		req.Energy = section
	case map[string]any:
		rec := map2rec.ConvertEnergy(section)
		req.Energy = rec.Kind
		if kind, err := energy.ParseKind(rec.Kind); err == nil && kind == energy.Custodio {
			req.Weights = &energy.Weights{HH: rec.W1, HP: rec.W2, HS: rec.W3}
		}
	}

	return req, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func overrideFromFlags(req *hpapi.RunRequest, set map[string]bool, flagValue map[string]any) error {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "seq":
			req.Sequence = v.(string)
		case "run-id":
			req.RunID = v.(string)
		case "continue-pop-id":
			req.ContinuePopulationID = v.(string)
		case "energy":
			req.Energy = v.(string)
		case "pop":
			req.PopulationSize = v.(int)
		case "gens":
			gens := v.(int)
			req.Generations = &gens
		case "eps":
			eps := v.(float64)
			req.Epsilon = &eps
		case "seed":
			req.Seed = v.(int64)
		case "workers":
			req.Workers = v.(int)
		case "selection":
			req.Selection = v.(string)
		case "tournament-size":
			req.TournamentSize = v.(int)
		case "crossover":
			req.Crossover = v.(string)
		case "mutation":
			req.Mutation = v.(string)
		case "max-offspring-attempts":
			req.MaxOffspringAttempts = v.(int)
		case "log":
			req.Log = v.(bool)
		case "log-every":
			req.LogEvery = v.(int)
		case "plot":
			req.Plot = v.(bool)
		}
	}

	// Weight flags adjust whatever weights are already in effect.
	if set["w1"] || set["w2"] || set["w3"] {
		w := energy.DefaultWeights
		if req.Weights != nil {
			w = *req.Weights
		}
		if set["w1"] {
			w.HH = flagValue["w1"].(float64)
		}
		if set["w2"] {
			w.HP = flagValue["w2"].(float64)
		}
		if set["w3"] {
			w.HS = flagValue["w3"].(float64)
		}
		req.Weights = &w
	}

	if req.Epsilon != nil && *req.Epsilon < 0 {
		return fmt.Errorf("eps must be >= 0")
	}
	// Berger takes no weights; drop the ones a config section carried over.
	if kind, err := energy.ParseKind(req.Energy); err == nil && kind == energy.Berger && !set["w1"] && !set["w2"] && !set["w3"] {
		req.Weights = nil
	}
	return nil
}

func loadOrDefaultRunRequest(configPath string) (hpapi.RunRequest, error) {
	if configPath == "" {
		return hpapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return hpapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}
