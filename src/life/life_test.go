package life

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestGene(t *testing.T) {
	t.Run("Mutate flips one bit", func(t *testing.T) {
		rng := newRand()
		for i := 0; i < 200; i++ {
			g := NewGene(rng)
			before := g.Value
			g.Mutate(rng)
			require.Equal(t, 1, bits.OnesCount32(before^g.Value))
		}
	})

	t.Run("String", func(t *testing.T) {
		require.Equal(t, "DEADBEEF", Gene{Value: 0xdeadbeef}.String())
		require.Equal(t, "0", Gene{}.String())
	})
}

func TestGenome(t *testing.T) {
	t.Run("Size", func(t *testing.T) {
		rng := newRand()
		for _, n := range []int{0, 1, 2, 3, 17} {
			g := NewGenome(n, rng)
			require.Equal(t, n, g.Len())
		}
		g := NewGenome(-3, rng)
		require.Equal(t, 0, g.Len())
	})

	t.Run("Seeded construction is reproducible", func(t *testing.T) {
		a := NewGenome(5, newRand())
		b := NewGenome(5, newRand())
		require.True(t, a.Equal(&b))
		require.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("Mutate changes exactly one gene by one bit", func(t *testing.T) {
		rng := newRand()
		g := NewGenome(4, rng)
		before := g.Genes()
		require.NoError(t, g.Mutate(rng))

		flipped := 0
		for i, gene := range g.Genes() {
			flipped += bits.OnesCount32(before[i].Value ^ gene.Value)
		}
		require.Equal(t, 1, flipped)
	})

	t.Run("Mutate empty genome", func(t *testing.T) {
		g := NewGenome(0, newRand())
		require.ErrorIs(t, g.Mutate(newRand()), ErrEmptyGenome)
		require.Equal(t, 0, g.Len())
	})

	t.Run("Hash depends on content and order only", func(t *testing.T) {
		a := GenomeOf(1, 2, 3)
		b := GenomeOf(1, 2, 3)
		c := GenomeOf(3, 2, 1)
		require.Equal(t, a.Hash(), b.Hash())
		require.Equal(t, a.Hash(), a.Hash())
		require.NotEqual(t, a.Hash(), c.Hash())
	})

	t.Run("Gene lookup is bounds checked", func(t *testing.T) {
		g := GenomeOf(0xA, 0xB)
		gene, ok := g.Gene(1)
		require.True(t, ok)
		require.Equal(t, uint32(0xB), gene.Value)
		for _, i := range []int{-1, 2, 100} {
			_, ok := g.Gene(i)
			require.False(t, ok)
		}
		e := GenomeOf()
		_, ok = e.Gene(0)
		require.False(t, ok)
	})

	t.Run("String", func(t *testing.T) {
		g := GenomeOf(0xA, 0xFF, 0x10)
		require.Equal(t, "A FF 10", g.String())
		e := GenomeOf()
		require.Equal(t, "", e.String())
	})
}

func TestOrganism(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		o := NewOrganism(3, 4, 2, newRand())
		require.Equal(t, 3, o.X)
		require.Equal(t, 4, o.Y)
		require.Equal(t, 2, o.Genome.Len())
	})

	t.Run("Color is a function of genome content", func(t *testing.T) {
		a := &Organism{X: 0, Y: 0, Genome: GenomeOf(7, 8)}
		b := &Organism{X: 5, Y: 9, Genome: GenomeOf(7, 8)}
		require.Equal(t, a.Color(), b.Color())
		require.Equal(t, a.Color(), a.Color())
	})

	t.Run("Color follows hash bytes", func(t *testing.T) {
		o := &Organism{Genome: GenomeOf(1)}
		h := o.Genome.Hash()
		require.Equal(t, Color{R: uint8(h), G: uint8(h >> 8), B: uint8(h >> 16)}, o.Color())
	})

	t.Run("Mutation may change color", func(t *testing.T) {
		rng := newRand()
		o := NewOrganism(0, 0, 2, rng)
		hash := o.Genome.Hash()
		require.NoError(t, o.Mutate(rng))
		require.NotEqual(t, hash, o.Genome.Hash())
	})
}
