package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"evosim/src/life"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func mustBoard(t *testing.T, w int, h int) *Board {
	t.Helper()
	b, err := New(w, h)
	require.NoError(t, err)
	return b
}

func TestBoard_New(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"square", 5, 5},
		{"wide", 7, 3},
		{"tall", 2, 9},
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"empty", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.w, tt.h)
			require.Equal(t, tt.w, b.Width())
			require.Equal(t, tt.h, b.Height())
			require.Equal(t, 0, b.Population())
			b.Walk(func(x int, y int, tile *Tile) {
				require.True(t, tile.Empty())
			})
		})
	}

	_, err := New(-1, 3)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestBoard_PopulateRandom(t *testing.T) {
	t.Run("Places distinct in-bounds organisms", func(t *testing.T) {
		for _, dims := range [][2]int{{5, 5}, {8, 3}, {3, 8}, {1, 1}} {
			b := mustBoard(t, dims[0], dims[1])
			count := dims[0] * dims[1] / 2
			if count == 0 {
				count = 1
			}
			require.NoError(t, b.PopulateRandom(count, 3, newRand()))
			require.Equal(t, count, b.Population())

			seen := map[[2]int]bool{}
			for _, o := range b.Organisms() {
				require.True(t, b.InBounds(o.X, o.Y))
				require.False(t, seen[[2]int{o.X, o.Y}])
				seen[[2]int{o.X, o.Y}] = true
				require.Equal(t, 3, o.Genome.Len())

				at, err := b.OrganismAt(o.X, o.Y)
				require.NoError(t, err)
				require.Same(t, o, at)
			}
		}
	})

	t.Run("Fills the whole board", func(t *testing.T) {
		b := mustBoard(t, 4, 3)
		require.NoError(t, b.PopulateRandom(12, 1, newRand()))
		require.Equal(t, 12, b.Population())
	})

	t.Run("Replaces the previous population", func(t *testing.T) {
		b := mustBoard(t, 6, 6)
		rng := newRand()
		require.NoError(t, b.PopulateRandom(20, 2, rng))
		require.NoError(t, b.PopulateRandom(4, 2, rng))
		require.Equal(t, 4, b.Population())
	})

	t.Run("Capacity error leaves the board unchanged", func(t *testing.T) {
		b := mustBoard(t, 5, 5)
		rng := newRand()
		require.NoError(t, b.PopulateRandom(3, 2, rng))
		before := b.Organisms()

		err := b.PopulateRandom(26, 2, rng)
		require.ErrorIs(t, err, ErrCapacity)
		require.Equal(t, before, b.Organisms())
	})

	t.Run("Empty board", func(t *testing.T) {
		b := mustBoard(t, 0, 0)
		require.NoError(t, b.PopulateRandom(0, 2, newRand()))
		require.ErrorIs(t, b.PopulateRandom(1, 2, newRand()), ErrCapacity)
	})

	t.Run("Negative arguments", func(t *testing.T) {
		b := mustBoard(t, 3, 3)
		require.ErrorIs(t, b.PopulateRandom(-1, 2, newRand()), ErrInvalidArgument)
		require.ErrorIs(t, b.PopulateRandom(1, -2, newRand()), ErrInvalidArgument)
	})

	t.Run("Seeded placement is reproducible", func(t *testing.T) {
		a := mustBoard(t, 10, 7)
		b := mustBoard(t, 10, 7)
		require.NoError(t, a.PopulateRandom(15, 2, newRand()))
		require.NoError(t, b.PopulateRandom(15, 2, newRand()))
		oa, ob := a.Organisms(), b.Organisms()
		require.Len(t, ob, len(oa))
		for i := range oa {
			require.Equal(t, oa[i].X, ob[i].X)
			require.Equal(t, oa[i].Y, ob[i].Y)
			require.True(t, oa[i].Genome.Equal(&ob[i].Genome))
		}
	})
}

func TestBoard_ColorAt(t *testing.T) {
	t.Run("Single tile board", func(t *testing.T) {
		b := mustBoard(t, 1, 1)
		require.NoError(t, b.PopulateRandom(1, 3, newRand()))

		o, err := b.OrganismAt(0, 0)
		require.NoError(t, err)
		require.NotNil(t, o)
		require.Equal(t, 3, o.Genome.Len())

		c, err := b.ColorAt(0, 0)
		require.NoError(t, err)
		require.Equal(t, o.Color(), c)

		for _, p := range [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}} {
			_, err := b.ColorAt(p[0], p[1])
			require.ErrorIs(t, err, ErrOutOfBounds)
		}
	})

	t.Run("Non-square boards check the right axis", func(t *testing.T) {
		b := mustBoard(t, 6, 2)
		_, err := b.ColorAt(5, 1)
		require.NoError(t, err)
		_, err = b.ColorAt(1, 5)
		require.ErrorIs(t, err, ErrOutOfBounds)

		o := &life.Organism{X: 5, Y: 1, Genome: life.GenomeOf(1, 2)}
		require.NoError(t, b.Place(o))
		c, err := b.ColorAt(5, 1)
		require.NoError(t, err)
		require.Equal(t, o.Color(), c)
	})

	t.Run("Background after clear", func(t *testing.T) {
		b := mustBoard(t, 4, 3)
		require.NoError(t, b.PopulateRandom(12, 2, newRand()))
		b.Clear()
		b.Walk(func(x int, y int, _ *Tile) {
			c, err := b.ColorAt(x, y)
			require.NoError(t, err)
			require.Equal(t, Background, c)
		})
	})
}

func TestBoard_PlaceRemoveMove(t *testing.T) {
	b := mustBoard(t, 3, 2)
	o := &life.Organism{X: 2, Y: 1, Genome: life.GenomeOf(9)}
	require.NoError(t, b.Place(o))
	require.ErrorIs(t, b.Place(&life.Organism{X: 2, Y: 1}), ErrOccupied)
	require.ErrorIs(t, b.Place(&life.Organism{X: 3, Y: 0}), ErrOutOfBounds)
	require.ErrorIs(t, b.Place(nil), ErrInvalidArgument)
	require.Equal(t, 1, b.Population())

	require.NoError(t, b.Move(2, 1, 0, 0))
	require.Equal(t, 0, o.X)
	require.Equal(t, 0, o.Y)
	at, err := b.OrganismAt(0, 0)
	require.NoError(t, err)
	require.Same(t, o, at)
	at, err = b.OrganismAt(2, 1)
	require.NoError(t, err)
	require.Nil(t, at)

	other := &life.Organism{X: 1, Y: 0}
	require.NoError(t, b.Place(other))
	require.ErrorIs(t, b.Move(0, 0, 1, 0), ErrOccupied)
	require.ErrorIs(t, b.Move(0, 0, 0, 2), ErrOutOfBounds)

	removed, err := b.Remove(1, 0)
	require.NoError(t, err)
	require.Same(t, other, removed)
	removed, err = b.Remove(1, 0)
	require.NoError(t, err)
	require.Nil(t, removed)
	require.Equal(t, 1, b.Population())
}

func TestTile_Clear(t *testing.T) {
	var tile Tile
	require.True(t, tile.Empty())
	tile.Clear()
	require.True(t, tile.Empty())

	tile.organism = &life.Organism{}
	require.False(t, tile.Empty())
	tile.Clear()
	require.Nil(t, tile.Organism())
}
