package energy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

func TestCountContactsSquare(t *testing.T) {
	c, err := CountContacts("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, Contacts{HH: 2, HP: 0, HS: 4}, c)
}

func TestBergerEnergy(t *testing.T) {
	e, err := BergerEnergy("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, -1.0, e)

	e, err = BergerEnergy("-FFF", "HPPH")
	require.NoError(t, err)
	require.Equal(t, 0.0, e)
}

func TestCustodioEnergy(t *testing.T) {
	e, err := CustodioEnergy("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, 160.0, e)

	// The chain end on the lattice border loses its out-of-bounds neighbour.
	e, err = CustodioEnergy("-FF", "HHH")
	require.NoError(t, err)
	require.Equal(t, 280.0, e)
}

func TestChainNeighboursAreNotContacts(t *testing.T) {
	c, err := CountContacts("-FFF", "HHHH")
	require.NoError(t, err)
	require.Equal(t, 0, c.HH)
}

func TestCustomWeights(t *testing.T) {
	w := Weights{HH: -2, HP: 1, HS: 0.5}
	e, err := w.Function()("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, -2.0*2/2+0.5*4, e)
}

func TestSingleResidueScoresZero(t *testing.T) {
	for _, seq := range []hp.Sequence{"H", "P"} {
		b, err := BergerEnergy("-", seq)
		require.NoError(t, err)
		require.Equal(t, 0.0, b)

		c, err := CustodioEnergy("-", seq)
		require.NoError(t, err)
		require.Equal(t, 0.0, c)
	}
}

func TestEnergyRejectsLengthMismatch(t *testing.T) {
	_, err := BergerEnergy("-LL", "HHHH")
	require.ErrorIs(t, err, lattice.ErrInvalidLength)
	_, err = CustodioEnergy("-LL", "HHHH")
	require.ErrorIs(t, err, lattice.ErrInvalidLength)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Berger")
	require.NoError(t, err)
	require.Equal(t, Berger, k)
	require.Equal(t, "berger", k.String())

	k, err = ParseKind("")
	require.NoError(t, err)
	require.Equal(t, Custodio, k)

	_, err = ParseKind("lennard-jones")
	require.Error(t, err)
}

func TestKindFunctionDispatch(t *testing.T) {
	b, err := Berger.Function()("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, -1.0, b)

	c, err := Custodio.Function()("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, 160.0, c)
}
