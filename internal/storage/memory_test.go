package storage

import (
	"context"
	"testing"

	"hpfold/internal/model"
)

func newInitializedMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return store
}

func testRun(id, createdAt string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: CurrentVersion(),
		ID:              id,
		Protein:         "HPPH",
		Sequence:        "HPPH",
		Fold:            "-LLL",
		Fitness:         160,
		Energy:          "custodio",
		PopulationSize:  10,
		Generations:     5,
		GenerationsRun:  3,
		Epsilon:         1e-5,
		Seed:            7,
		Converged:       true,
		Evaluations:     42,
		CreatedAtUTC:    createdAt,
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newInitializedMemoryStore(t)

	run := testRun("run-1", "2026-01-01T00:00:00Z")
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	loaded, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if loaded != run {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run, ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newInitializedMemoryStore(t)

	for _, run := range []model.RunRecord{
		testRun("run-b", "2026-01-01T00:00:00Z"),
		testRun("run-c", "2026-01-03T00:00:00Z"),
		testRun("run-a", "2026-01-01T00:00:00Z"),
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	got := []string{runs[0].ID, runs[1].ID, runs[2].ID}
	want := []string{"run-c", "run-a", "run-b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v", got)
		}
	}
}

func TestMemoryStorePopulationIsCopied(t *testing.T) {
	ctx := context.Background()
	store := newInitializedMemoryStore(t)

	members := []model.ScoredFold{{Fold: "-LLL", Fitness: 160}, {Fold: "-FFF", Fitness: 280}}
	population := model.Population{
		VersionedRecord: CurrentVersion(),
		ID:              "pop-1",
		RunID:           "run-1",
		Sequence:        "HPPH",
		Generation:      4,
		Members:         members,
	}
	if err := store.SavePopulation(ctx, population); err != nil {
		t.Fatalf("save population: %v", err)
	}
	members[0].Fitness = -1

	loaded, ok, err := store.GetPopulation(ctx, "pop-1")
	if err != nil || !ok {
		t.Fatalf("get population: ok=%t err=%v", ok, err)
	}
	if loaded.Generation != 4 || len(loaded.Members) != 2 || loaded.Members[0].Fitness != 160 {
		t.Fatalf("unexpected population: %+v", loaded)
	}
}

func TestMemoryStoreFitnessHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newInitializedMemoryStore(t)

	input := []float64{300, 250.5, 240}
	if err := store.SaveFitnessHistory(ctx, "run-1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}
	output, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted fitness history")
	}
	if len(output) != len(input) || output[1] != input[1] {
		t.Fatalf("unexpected history: %+v", output)
	}
}

func TestMemoryStoreDiagnosticsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newInitializedMemoryStore(t)

	input := []model.GenerationDiagnostics{{Generation: 1, MeanFitness: 250, BestFitness: 160, CrossoverCalls: 9}}
	if err := store.SaveGenerationDiagnostics(ctx, "run-1", input); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	output, ok, err := store.GetGenerationDiagnostics(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get diagnostics: ok=%t err=%v", ok, err)
	}
	if len(output) != 1 || output[0] != input[0] {
		t.Fatalf("unexpected diagnostics: %+v", output)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveRun(context.Background(), testRun("run-1", "")); err == nil {
		t.Fatal("expected uninitialized store error")
	}
}
