// Package lattice embeds relative-turn folds onto a 2D square lattice.
package lattice

import (
	"errors"
	"fmt"
	"strings"
)

// Turn is one symbol of a fold encoding.
type Turn byte

const (
	Anchor  Turn = '-'
	Left    Turn = 'L'
	Right   Turn = 'R'
	Forward Turn = 'F'
)

// Moves are the turns available at every non-anchor position.
var Moves = [3]Turn{Left, Right, Forward}

var (
	ErrInvalidFold   = errors.New("invalid fold")
	ErrInvalidLength = errors.New("fold length does not match sequence length")
)

// Fold is a relative-turn encoding of a lattice walk. Position 0 is always
// Anchor; every other position is Left, Right or Forward. Two folds are equal
// iff their symbol sequences are identical.
type Fold string

// ParseFold validates a fold encoding.
func ParseFold(raw string) (Fold, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidFold)
	}
	if Turn(raw[0]) != Anchor {
		return "", fmt.Errorf("%w: position 0 must be %q, got %q", ErrInvalidFold, Anchor, raw[0])
	}
	for i := 1; i < len(raw); i++ {
		if !isMove(Turn(raw[i])) {
			return "", fmt.Errorf("%w: symbol %q at position %d", ErrInvalidFold, raw[i], i)
		}
	}
	return Fold(raw), nil
}

// NewFold builds a fold from the moves for positions 1..n-1.
func NewFold(moves []Turn) Fold {
	b := make([]byte, 0, len(moves)+1)
	b = append(b, byte(Anchor))
	for _, m := range moves {
		b = append(b, byte(m))
	}
	return Fold(b)
}

// Straight returns the fully extended fold of length n.
func Straight(n int) Fold {
	if n <= 0 {
		return ""
	}
	return Fold(string(Anchor) + strings.Repeat(string(Forward), n-1))
}

func (f Fold) Len() int {
	return len(f)
}

func (f Fold) At(i int) Turn {
	return Turn(f[i])
}

func (f Fold) String() string {
	return string(f)
}

func isMove(t Turn) bool {
	return t == Left || t == Right || t == Forward
}
