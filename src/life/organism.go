package life

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

//Color is the 3-byte RGB display color
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

//Organism is a positioned entity owning a genome.
//X and Y are kept equal to the coordinates of the tile holding it by the board.
type Organism struct {
	X      int
	Y      int
	Genome Genome
}

//NewOrganism creates the organism at x, y with a random genome of genomeSize genes.
//No bounds checking is done here, the board validates the placement.
func NewOrganism(x int, y int, genomeSize int, rng *rand.Rand) *Organism {
	return &Organism{
		X:      x,
		Y:      y,
		Genome: NewGenome(genomeSize, rng),
	}
}

//Color derives the display color from the first three bytes of the genome hash
func (o *Organism) Color() Color {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], o.Genome.Hash())
	return Color{R: b[0], G: b[1], B: b[2]}
}

//Mutate mutates one gene of the genome
func (o *Organism) Mutate(rng *rand.Rand) error {
	return o.Genome.Mutate(rng)
}

func (o *Organism) String() string {
	return fmt.Sprintf("organism(%d, %d) [%s]", o.X, o.Y, o.Genome.String())
}
