package evo

import (
	"errors"
	"math/rand"
	"testing"

	"hpfold/internal/lattice"
)

type identityMutation struct{}

func (identityMutation) Name() string { return "identity" }

func (identityMutation) Mutate(_ *rand.Rand, fold lattice.Fold) lattice.Fold { return fold }

type namedOnly struct{}

func (namedOnly) Name() string { return "named_only" }

func TestBuiltinOperatorsAreRegistered(t *testing.T) {
	resetOperatorRegistryForTests()
	t.Cleanup(resetOperatorRegistryForTests)

	names := ListOperators()
	want := []string{"one_point", "tournament", "two_point", "uniform"}
	if len(names) != len(want) {
		t.Fatalf("unexpected operators: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected operators: %v", names)
		}
	}

	r, err := ResolveRecombiner("one_point")
	if err != nil {
		t.Fatalf("resolve one_point: %v", err)
	}
	if pc, ok := r.(PointCrossover); !ok || pc.Points != 1 {
		t.Fatalf("unexpected recombiner: %#v", r)
	}
	if _, err := ResolveMutator("uniform"); err != nil {
		t.Fatalf("resolve uniform: %v", err)
	}
}

func TestResolveSelectorOverridesTournamentSize(t *testing.T) {
	resetOperatorRegistryForTests()
	t.Cleanup(resetOperatorRegistryForTests)

	s, err := ResolveSelector("tournament", 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	ts, ok := s.(TournamentSelector)
	if !ok || ts.TournamentSize != 5 {
		t.Fatalf("unexpected selector: %#v", s)
	}

	s, err = ResolveSelector("tournament", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.(TournamentSelector).TournamentSize != DefaultTournamentSize {
		t.Fatalf("expected default tournament size, got %#v", s)
	}
}

func TestRegisterOperatorDuplicate(t *testing.T) {
	resetOperatorRegistryForTests()
	t.Cleanup(resetOperatorRegistryForTests)

	if err := RegisterOperator(identityMutation{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := RegisterOperator(identityMutation{}); !errors.Is(err, ErrOperatorExists) {
		t.Fatalf("expected ErrOperatorExists, got: %v", err)
	}
}

func TestRegisterOperatorValidation(t *testing.T) {
	resetOperatorRegistryForTests()
	t.Cleanup(resetOperatorRegistryForTests)

	if err := RegisterOperator(nil); err == nil {
		t.Fatal("expected nil operator error")
	}
	if err := RegisterOperator(namedOnly{}); !errors.Is(err, ErrOperatorIncompatible) {
		t.Fatalf("expected ErrOperatorIncompatible, got: %v", err)
	}
}

func TestResolveWrongKind(t *testing.T) {
	resetOperatorRegistryForTests()
	t.Cleanup(resetOperatorRegistryForTests)

	if _, err := ResolveMutator("two_point"); !errors.Is(err, ErrOperatorIncompatible) {
		t.Fatalf("expected ErrOperatorIncompatible, got: %v", err)
	}
	if _, err := ResolveRecombiner("tournament"); !errors.Is(err, ErrOperatorIncompatible) {
		t.Fatalf("expected ErrOperatorIncompatible, got: %v", err)
	}
	if _, err := ResolveSelector("uniform", 0); !errors.Is(err, ErrOperatorIncompatible) {
		t.Fatalf("expected ErrOperatorIncompatible, got: %v", err)
	}
	if _, err := ResolveRecombiner("three_point"); !errors.Is(err, ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound, got: %v", err)
	}
}
