package lattice

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"hpfold/internal/hp"
)

func TestParseFold(t *testing.T) {
	fold, err := ParseFold("-lrf")
	require.NoError(t, err)
	require.Equal(t, Fold("-LRF"), fold)
	require.Equal(t, Left, fold.At(1))

	for _, raw := range []string{"", "LRF", "-LX", "--L"} {
		_, err := ParseFold(raw)
		require.ErrorIs(t, err, ErrInvalidFold, raw)
	}
}

func TestNewFoldAndStraight(t *testing.T) {
	require.Equal(t, Fold("-LRF"), NewFold([]Turn{Left, Right, Forward}))
	require.Equal(t, Fold("-"), NewFold(nil))
	require.Equal(t, Fold("-FFFF"), Straight(5))
	require.Equal(t, Fold(""), Straight(0))
}

func TestHeadingRotationTable(t *testing.T) {
	cases := []struct {
		heading    Heading
		turn       Turn
		dRow, dCol int
		next       Heading
	}{
		{HeadingUp, Left, 0, -1, HeadingLeft},
		{HeadingUp, Right, 0, 1, HeadingRight},
		{HeadingUp, Forward, -1, 0, HeadingUp},
		{HeadingDown, Left, 0, 1, HeadingRight},
		{HeadingDown, Right, 0, -1, HeadingLeft},
		{HeadingDown, Forward, 1, 0, HeadingDown},
		{HeadingRight, Left, -1, 0, HeadingUp},
		{HeadingRight, Right, 1, 0, HeadingDown},
		{HeadingRight, Forward, 0, 1, HeadingRight},
		{HeadingLeft, Left, 1, 0, HeadingDown},
		{HeadingLeft, Right, -1, 0, HeadingUp},
		{HeadingLeft, Forward, 0, -1, HeadingLeft},
	}
	for _, tc := range cases {
		dRow, dCol, next, err := tc.heading.Turn(tc.turn)
		require.NoError(t, err)
		require.Equal(t, tc.dRow, dRow, "%s %c", tc.heading, tc.turn)
		require.Equal(t, tc.dCol, dCol, "%s %c", tc.heading, tc.turn)
		require.Equal(t, tc.next, next, "%s %c", tc.heading, tc.turn)
	}

	_, _, _, err := HeadingUp.Turn(Anchor)
	require.ErrorIs(t, err, ErrInvalidFold)
}

func TestEmbedSquare(t *testing.T) {
	lat, path, err := Embed("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, 7, lat.Size)
	require.Equal(t, Path{{3, 3}, {2, 3}, {2, 2}, {3, 2}}, path)
	require.Equal(t, Cell{Count: 1, Tag: Hydrophobic}, lat.At(Coord{3, 3}))
	require.Equal(t, Cell{Count: 1, Tag: Polar}, lat.At(Coord{2, 3}))
	require.Equal(t, Cell{Count: 0, Tag: Empty}, lat.At(Coord{0, 0}))
	require.True(t, lat.SelfAvoiding())

	_, path, err = Embed("-RRR", "HHHH")
	require.NoError(t, err)
	require.Equal(t, Path{{3, 3}, {4, 3}, {4, 2}, {3, 2}}, path)
}

func TestEmbedRecordsCollisions(t *testing.T) {
	lat, path, err := Embed("-LLLL", "HHHHH")
	require.NoError(t, err)
	require.Len(t, path, 5)
	require.Equal(t, path[0], path[4])
	require.Equal(t, 2, lat.At(path[0]).Count)
	require.False(t, lat.SelfAvoiding())
	require.False(t, IsSelfAvoiding("-LLLL"))
}

func TestEmbedRejectsLengthMismatch(t *testing.T) {
	_, _, err := Embed("-LL", "HP")
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = CheckSAW("-LL", "HPHP")
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestEmbedRejectsMissingAnchor(t *testing.T) {
	_, _, err := Embed("LFF", "HPH")
	require.ErrorIs(t, err, ErrInvalidFold)

	_, err = CheckSAW("FFF", "HPH")
	require.ErrorIs(t, err, ErrInvalidFold)
	require.False(t, IsSelfAvoiding("LFF"))
}

func TestEmbedTrivialChains(t *testing.T) {
	lat, path, err := Embed("", "")
	require.NoError(t, err)
	require.Empty(t, path)
	require.Equal(t, 0, lat.Size)
	require.True(t, IsSelfAvoiding(""))

	lat, path, err = Embed("-", "P")
	require.NoError(t, err)
	require.Equal(t, Path{{0, 0}}, path)
	require.Equal(t, Cell{Count: 1, Tag: Polar}, lat.At(Coord{0, 0}))
	require.True(t, IsSelfAvoiding("-"))
}

func TestStraightWalkStaysOnLattice(t *testing.T) {
	for n := 1; n <= 40; n++ {
		lat, path, err := Embed(Straight(n), hp.Uniform(n, hp.Polar))
		require.NoError(t, err)
		for _, c := range path {
			require.True(t, lat.InBounds(c), "n=%d coord=%v", n, c)
		}
		require.Equal(t, lat.Size-1, path[len(path)-1].Col)
	}
}

func TestSelfAvoidanceIgnoresComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := 2 + rng.Intn(12)
		moves := make([]Turn, n-1)
		for j := range moves {
			moves[j] = Moves[rng.Intn(len(Moves))]
		}
		fold := NewFold(moves)
		residues := make([]byte, n)
		for j := range residues {
			residues[j] = "HP"[rng.Intn(2)]
		}
		ok, err := CheckSAW(fold, hp.Sequence(residues))
		require.NoError(t, err)
		require.Equal(t, IsSelfAvoiding(fold), ok, fold)
	}
}

func TestValidEmbeddingOccupiesOneCellPerResidue(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seen := 0
	for seen < 50 {
		n := 3 + rng.Intn(15)
		moves := make([]Turn, n-1)
		for j := range moves {
			moves[j] = Moves[rng.Intn(len(Moves))]
		}
		fold := NewFold(moves)
		if !IsSelfAvoiding(fold) {
			continue
		}
		seen++
		seq := hp.Uniform(n, hp.Hydrophobic)
		lat, path, err := Embed(fold, seq)
		require.NoError(t, err)
		require.Len(t, path, n)
		require.Equal(t, n, lat.Occupied())
		unique := make(map[Coord]struct{}, n)
		for _, c := range path {
			require.Equal(t, 1, lat.At(c).Count)
			unique[c] = struct{}{}
		}
		require.Len(t, unique, n)
	}
}

func TestEmbedIsIdempotent(t *testing.T) {
	fold := Fold("-LFRRLFFL")
	seq := hp.Sequence("HPHPPHHPH")
	lat1, path1, err := Embed(fold, seq)
	require.NoError(t, err)
	lat2, path2, err := Embed(fold, seq)
	require.NoError(t, err)
	require.Equal(t, path1, path2)
	require.Equal(t, lat1, lat2)
}

func TestNeighborsClipToLattice(t *testing.T) {
	lat, _, err := Embed("-FF", "HHH")
	require.NoError(t, err)
	require.Len(t, lat.Neighbors(Coord{2, 4}), 3)
	require.Len(t, lat.Neighbors(Coord{0, 0}), 2)
	require.Len(t, lat.Neighbors(Coord{2, 2}), 4)
}

func TestRender(t *testing.T) {
	lat, path, err := Embed("-LLL", "HPPH")
	require.NoError(t, err)
	require.Equal(t, "P-P\n| |\nH H\n", Render(lat, path))

	lat, path, err = Embed("-LLLL", "HHHHP")
	require.NoError(t, err)
	require.True(t, strings.Contains(Render(lat, path), "X"))

	require.Equal(t, "", Render(nil, nil))
}
