package life

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"strings"

	"github.com/cespare/xxhash/v2"
)

//ErrEmptyGenome is returned when a zero-length genome is asked to mutate
var ErrEmptyGenome = errors.New("genome is empty")

//Genome is the ordered sequence of genes owned by one organism.
//The length is fixed at construction.
type Genome struct {
	genes []Gene
}

//NewGenome creates the genome of size independently random genes.
//A non-positive size gives an empty genome.
func NewGenome(size int, rng *rand.Rand) Genome {
	if size < 0 {
		size = 0
	}
	genes := make([]Gene, size)
	for i := range genes {
		genes[i] = NewGene(rng)
	}
	return Genome{genes: genes}
}

//GenomeOf builds the genome from the given values, in order
func GenomeOf(values ...uint32) Genome {
	genes := make([]Gene, len(values))
	for i, v := range values {
		genes[i].Value = v
	}
	return Genome{genes: genes}
}

//Len returns the number of genes
func (g *Genome) Len() int {
	return len(g.genes)
}

//Gene returns the gene at index i, ok is false when i is out of range
func (g *Genome) Gene(i int) (gene Gene, ok bool) {
	if i < 0 || i >= len(g.genes) {
		return Gene{}, false
	}
	return g.genes[i], true
}

//Genes returns a copy of the gene sequence
func (g *Genome) Genes() []Gene {
	out := make([]Gene, len(g.genes))
	copy(out, g.genes)
	return out
}

//Mutate picks one gene uniformly and flips one of its bits.
//An empty genome is left untouched and ErrEmptyGenome is returned.
func (g *Genome) Mutate(rng *rand.Rand) error {
	if len(g.genes) == 0 {
		return ErrEmptyGenome
	}
	g.genes[rng.Intn(len(g.genes))].Mutate(rng)
	return nil
}

//Hash is the xxhash64 of the gene values written as little-endian words, in order
func (g *Genome) Hash() uint64 {
	d := xxhash.New()
	var buf [4]byte
	for _, gene := range g.genes {
		binary.LittleEndian.PutUint32(buf[:], gene.Value)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

//Equal reports whether both genomes hold the same genes in the same order
func (g *Genome) Equal(o *Genome) bool {
	if len(g.genes) != len(o.genes) {
		return false
	}
	for i := range g.genes {
		if g.genes[i] != o.genes[i] {
			return false
		}
	}
	return true
}

//String joins the hex text of every gene with single spaces
func (g *Genome) String() string {
	parts := make([]string, len(g.genes))
	for i, gene := range g.genes {
		parts[i] = gene.String()
	}
	return strings.Join(parts, " ")
}
