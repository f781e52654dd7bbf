package life

import (
	"fmt"
	"math/rand"
)

//GeneBits is the fixed width of every gene
const GeneBits = 32

//Gene is the smallest heritable unit: a fixed-width random bit pattern
type Gene struct {
	Value uint32
}

//NewGene creates the gene with a value drawn uniformly from the full uint32 range
func NewGene(rng *rand.Rand) Gene {
	return Gene{Value: rng.Uint32()}
}

//Mutate flips exactly one uniformly chosen bit of the value
func (g *Gene) Mutate(rng *rand.Rand) {
	g.Value ^= 1 << uint(rng.Intn(GeneBits))
}

//String returns the upper-case hex text of the value
func (g Gene) String() string {
	return fmt.Sprintf("%X", g.Value)
}
