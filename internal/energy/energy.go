// Package energy scores lattice folds under the HP model. Lower is better.
package energy

import (
	"fmt"
	"strings"

	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

// Function scores a fold of seq. Every scorer shares this signature so the
// search engine does not depend on which one is active.
type Function func(fold lattice.Fold, seq hp.Sequence) (float64, error)

// Kind selects one of the supported scorers.
type Kind int

const (
	Berger Kind = iota
	Custodio
)

func (k Kind) String() string {
	switch k {
	case Berger:
		return "berger"
	case Custodio:
		return "custodio"
	default:
		return fmt.Sprintf("energy(%d)", int(k))
	}
}

// ParseKind maps a scorer name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "berger":
		return Berger, nil
	case "", "custodio":
		return Custodio, nil
	default:
		return 0, fmt.Errorf("unsupported energy function: %s", name)
	}
}

// Function returns the scorer for k with default weights.
func (k Kind) Function() Function {
	if k == Berger {
		return BergerEnergy
	}
	return DefaultWeights.Function()
}

// Contacts counts the non-bonded neighbours of H residues. HH is seen from
// both ends, so every HH contact is counted twice; HP and HS (solvent) are
// only counted from the H side.
type Contacts struct {
	HH int
	HP int
	HS int
}

// CountContacts embeds fold and counts the contacts around every
// H residue. Chain neighbours are bonds, not contacts, and are skipped.
func CountContacts(fold lattice.Fold, seq hp.Sequence) (Contacts, error) {
	lat, path, err := lattice.Embed(fold, seq)
	if err != nil {
		return Contacts{}, err
	}

	var c Contacts
	for i, pos := range path {
		if lat.At(pos).Tag != lattice.Hydrophobic {
			continue
		}
		for _, n := range lat.Neighbors(pos) {
			if i > 0 && n == path[i-1] {
				continue
			}
			if i+1 < len(path) && n == path[i+1] {
				continue
			}
			switch lat.At(n).Tag {
			case lattice.Hydrophobic:
				c.HH++
			case lattice.Polar:
				c.HP++
			default:
				c.HS++
			}
		}
	}
	return c, nil
}

// BergerEnergy returns minus the number of HH contacts.
func BergerEnergy(fold lattice.Fold, seq hp.Sequence) (float64, error) {
	c, err := CountContacts(fold, seq)
	if err != nil {
		return 0, err
	}
	if c.HH == 0 {
		return 0, nil
	}
	return -float64(c.HH) / 2, nil
}

// Weights are the Custodio coefficients for HH, HP and H-solvent contacts.
type Weights struct {
	HH float64 `json:"w1"`
	HP float64 `json:"w2"`
	HS float64 `json:"w3"`
}

// DefaultWeights leave HH contacts neutral and penalise exposed H residues
// most heavily.
var DefaultWeights = Weights{HH: 0, HP: 10, HS: 40}

// Score combines contact counts as w1*hh/2 + w2*hp + w3*hs.
func (w Weights) Score(c Contacts) float64 {
	return w.HH*float64(c.HH)/2 + w.HP*float64(c.HP) + w.HS*float64(c.HS)
}

// Function returns a Custodio scorer using w.
func (w Weights) Function() Function {
	return func(fold lattice.Fold, seq hp.Sequence) (float64, error) {
		c, err := CountContacts(fold, seq)
		if err != nil {
			return 0, err
		}
		return w.Score(c), nil
	}
}

// CustodioEnergy scores with DefaultWeights.
func CustodioEnergy(fold lattice.Fold, seq hp.Sequence) (float64, error) {
	return DefaultWeights.Function()(fold, seq)
}
