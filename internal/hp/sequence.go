// Package hp models protein chains in the hydrophobic-polar (HP) alphabet.
package hp

import (
	"errors"
	"fmt"
	"strings"
)

// Residue is the HP class of one amino acid.
type Residue byte

const (
	Hydrophobic Residue = 'H'
	Polar       Residue = 'P'
)

var (
	ErrEmptySequence  = errors.New("sequence is empty")
	ErrInvalidResidue = errors.New("invalid residue")
)

// hydrophobic amino acids in one-letter code.
const hydrophobicAminoAcids = "AVILMFYW"

// Sequence is an immutable chain of H and P residues.
type Sequence string

// ParseSequence accepts a string over {H, P} (case-insensitive).
func ParseSequence(raw string) (Sequence, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return "", ErrEmptySequence
	}
	for i := 0; i < len(raw); i++ {
		switch Residue(raw[i]) {
		case Hydrophobic, Polar:
		default:
			return "", fmt.Errorf("%w %q at position %d", ErrInvalidResidue, raw[i], i)
		}
	}
	return Sequence(raw), nil
}

// FromProtein classifies a one-letter amino-acid sequence into H/P.
func FromProtein(protein string) (Sequence, error) {
	protein = strings.ToUpper(strings.TrimSpace(protein))
	if protein == "" {
		return "", ErrEmptySequence
	}
	var b strings.Builder
	b.Grow(len(protein))
	for i := 0; i < len(protein); i++ {
		c := protein[i]
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("%w %q at position %d", ErrInvalidResidue, c, i)
		}
		if strings.IndexByte(hydrophobicAminoAcids, c) >= 0 {
			b.WriteByte(byte(Hydrophobic))
		} else {
			b.WriteByte(byte(Polar))
		}
	}
	return Sequence(b.String()), nil
}

// Uniform returns a chain of n identical residues.
func Uniform(n int, r Residue) Sequence {
	if n <= 0 {
		return ""
	}
	return Sequence(strings.Repeat(string(r), n))
}

func (s Sequence) Len() int {
	return len(s)
}

func (s Sequence) At(i int) Residue {
	return Residue(s[i])
}

func (s Sequence) String() string {
	return string(s)
}

// CountHydrophobic returns the number of H residues.
func (s Sequence) CountHydrophobic() int {
	return strings.Count(string(s), string(Hydrophobic))
}
