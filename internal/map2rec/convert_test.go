package map2rec

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestConvertUnsupportedKind(t *testing.T) {
	if _, err := Convert("constraint", map[string]any{}); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestConvertGADefaults(t *testing.T) {
	got := ConvertGA(map[string]any{})
	if got != defaultGARecord() {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if got.PopulationSize != 1000 || got.Generations != 500 || got.Epsilon != 1e-5 || got.TournamentSize != 2 {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestConvertGAFromJSON(t *testing.T) {
	var in map[string]any
	data := []byte(`{"pop": 200, "gens": 50, "eps": 0, "seed": 42, "workers": 4,
		"crossover": "one_point", "tournament_size": 3, "unknown": true, "mutation": 7}`)
	if err := json.Unmarshal(data, &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, err := Convert("ga", in)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	rec, ok := got.(GARecord)
	if !ok {
		t.Fatalf("unexpected dispatch result: %#v", got)
	}
	if rec.PopulationSize != 200 || rec.Generations != 50 || rec.Epsilon != 0 || rec.Seed != 42 || rec.Workers != 4 {
		t.Fatalf("unexpected numeric fields: %+v", rec)
	}
	if rec.Crossover != "one_point" || rec.TournamentSize != 3 {
		t.Fatalf("unexpected operator fields: %+v", rec)
	}
	// Wrong type keeps the default.
	if rec.Mutation != "uniform" {
		t.Fatalf("expected default mutation, got %q", rec.Mutation)
	}
}

func TestConvertEnergy(t *testing.T) {
	rec := ConvertEnergy(map[string]any{"kind": " Berger "})
	if rec.Kind != "berger" || rec.W2 != 10 || rec.W3 != 40 {
		t.Fatalf("unexpected berger record: %+v", rec)
	}

	rec = ConvertEnergy(map[string]any{"w1": -1.0, "w3": 5})
	if rec.Kind != "custodio" || rec.W1 != -1 || rec.W2 != 10 || rec.W3 != 5 {
		t.Fatalf("unexpected weights: %+v", rec)
	}

	rec = ConvertEnergy(map[string]any{"weights": []any{1.0, 2.0, 3.0}, "w1": 9.0})
	if rec.W1 != 1 || rec.W2 != 2 || rec.W3 != 3 {
		t.Fatalf("weights list should win: %+v", rec)
	}

	rec = ConvertEnergy(map[string]any{"weights": []any{1.0, 2.0}})
	if rec != defaultEnergyRecord() {
		t.Fatalf("short weights list should be ignored: %+v", rec)
	}
}
