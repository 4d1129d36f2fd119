package evo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrOperatorExists       = errors.New("operator already registered")
	ErrOperatorNotFound     = errors.New("operator not found")
	ErrOperatorIncompatible = errors.New("operator has the wrong kind")
)

// Operator is the common surface of Mutator, Recombiner and Selector.
type Operator interface {
	Name() string
}

var operatorRegistry = struct {
	mu sync.RWMutex
	m  map[string]Operator
}{
	m: make(map[string]Operator),
}

func init() {
	for _, op := range builtinOperators() {
		if err := RegisterOperator(op); err != nil {
			panic(err)
		}
	}
}

func builtinOperators() []Operator {
	return []Operator{
		UniformMutation{},
		PointCrossover{Points: 1},
		PointCrossover{Points: 2},
		TournamentSelector{TournamentSize: DefaultTournamentSize},
	}
}

// RegisterOperator makes op resolvable under op.Name().
func RegisterOperator(op Operator) error {
	if op == nil {
		return errors.New("operator is required")
	}
	name := op.Name()
	if name == "" {
		return errors.New("operator name is required")
	}
	switch op.(type) {
	case Mutator, Recombiner, Selector:
	default:
		return fmt.Errorf("%w: %s is not a mutator, recombiner or selector", ErrOperatorIncompatible, name)
	}

	operatorRegistry.mu.Lock()
	defer operatorRegistry.mu.Unlock()

	if _, exists := operatorRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrOperatorExists, name)
	}
	operatorRegistry.m[name] = op
	return nil
}

func lookupOperator(name string) (Operator, error) {
	operatorRegistry.mu.RLock()
	op, ok := operatorRegistry.m[name]
	operatorRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperatorNotFound, name)
	}
	return op, nil
}

func ResolveMutator(name string) (Mutator, error) {
	op, err := lookupOperator(name)
	if err != nil {
		return nil, err
	}
	m, ok := op.(Mutator)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a mutator", ErrOperatorIncompatible, name)
	}
	return m, nil
}

func ResolveRecombiner(name string) (Recombiner, error) {
	op, err := lookupOperator(name)
	if err != nil {
		return nil, err
	}
	r, ok := op.(Recombiner)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a recombiner", ErrOperatorIncompatible, name)
	}
	return r, nil
}

// ResolveSelector returns the named selector. A positive tournamentSize
// overrides K when the selector is a TournamentSelector.
func ResolveSelector(name string, tournamentSize int) (Selector, error) {
	op, err := lookupOperator(name)
	if err != nil {
		return nil, err
	}
	s, ok := op.(Selector)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a selector", ErrOperatorIncompatible, name)
	}
	if ts, ok := s.(TournamentSelector); ok && tournamentSize > 0 {
		ts.TournamentSize = tournamentSize
		return ts, nil
	}
	return s, nil
}

func ListOperators() []string {
	operatorRegistry.mu.RLock()
	defer operatorRegistry.mu.RUnlock()

	names := make([]string, 0, len(operatorRegistry.m))
	for name := range operatorRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetOperatorRegistryForTests() {
	operatorRegistry.mu.Lock()
	defer operatorRegistry.mu.Unlock()
	operatorRegistry.m = make(map[string]Operator)
	for _, op := range builtinOperators() {
		operatorRegistry.m[op.Name()] = op
	}
}
