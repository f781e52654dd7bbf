package world

import (
	"fmt"
	"math/rand"

	"evosim/src/life"
)

//Background is the color of an empty tile
var Background = life.Color{R: 255, G: 255, B: 255}

//Board is the fixed size grid of tiles.
//Tiles are addressed as tiles[y][x]: height rows of width columns.
type Board struct {
	width  int
	height int
	tiles  [][]Tile
}

//New allocates the board of width x height empty tiles.
//A zero dimension gives an empty board.
func New(width int, height int) (*Board, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %v x %v", ErrInvalidSize, width, height)
	}
	b := &Board{width: width, height: height, tiles: make([][]Tile, height)}
	//all rows share one backing slice
	buf := make([]Tile, width*height)
	for i := range b.tiles {
		start := width * i
		b.tiles[i] = buf[start : start+width : start+width]
	}
	return b, nil
}

//Width returns the number of tiles in each row
func (b *Board) Width() int {
	return b.width
}

//Height returns the number of rows
func (b *Board) Height() int {
	return b.height
}

//InBounds reports whether x, y addresses a tile
func (b *Board) InBounds(x int, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

//Tile returns the tile at x, y
func (b *Board) Tile(x int, y int) (*Tile, error) {
	if !b.InBounds(x, y) {
		return nil, b.outOfBounds(x, y)
	}
	return &b.tiles[y][x], nil
}

//OrganismAt returns the organism at x, y, nil for an empty tile
func (b *Board) OrganismAt(x int, y int) (*life.Organism, error) {
	t, err := b.Tile(x, y)
	if err != nil {
		return nil, err
	}
	return t.Organism(), nil
}

//ColorAt returns the color of the organism at x, y or Background for an empty tile
func (b *Board) ColorAt(x int, y int) (life.Color, error) {
	o, err := b.OrganismAt(x, y)
	if err != nil {
		return life.Color{}, err
	}
	if o == nil {
		return Background, nil
	}
	return o.Color(), nil
}

//Clear removes every organism
func (b *Board) Clear() {
	b.Walk(func(_ int, _ int, t *Tile) {
		t.Clear()
	})
}

//PopulateRandom clears the board and places count new organisms with genomes of genomeSize genes
//on distinct random tiles. Coordinates are drawn with replacement and retried on collision,
//so the placement is not an exact uniform draw over all subsets.
//Arguments are validated before the board is touched.
func (b *Board) PopulateRandom(count int, genomeSize int, rng *rand.Rand) error {
	if count < 0 || genomeSize < 0 {
		return fmt.Errorf("%w: count %v, genome size %v", ErrInvalidArgument, count, genomeSize)
	}
	if capacity := b.width * b.height; count > capacity {
		return fmt.Errorf("%w: %v organisms requested, board %v x %v has %v tiles", ErrCapacity, count, b.width, b.height, capacity)
	}
	b.Clear()
	for placed := 0; placed < count; {
		x := rng.Intn(b.width)
		y := rng.Intn(b.height)
		t := &b.tiles[y][x]
		if !t.Empty() {
			continue
		}
		t.organism = life.NewOrganism(x, y, genomeSize, rng)
		placed++
	}
	return nil
}

//Place puts the organism on the tile addressed by its own coordinates
func (b *Board) Place(o *life.Organism) error {
	if o == nil {
		return fmt.Errorf("%w: nil organism", ErrInvalidArgument)
	}
	t, err := b.Tile(o.X, o.Y)
	if err != nil {
		return err
	}
	if !t.Empty() {
		return fmt.Errorf("%w: (%v, %v)", ErrOccupied, o.X, o.Y)
	}
	t.organism = o
	return nil
}

//Remove clears the tile at x, y and returns the removed organism, if any
func (b *Board) Remove(x int, y int) (*life.Organism, error) {
	t, err := b.Tile(x, y)
	if err != nil {
		return nil, err
	}
	o := t.organism
	t.Clear()
	return o, nil
}

//Move relocates the organism at x, y to the empty tile nx, ny and updates its coordinates.
//Moving from an empty tile is a no-op.
func (b *Board) Move(x int, y int, nx int, ny int) error {
	from, err := b.Tile(x, y)
	if err != nil {
		return err
	}
	to, err := b.Tile(nx, ny)
	if err != nil {
		return err
	}
	if from.Empty() || from == to {
		return nil
	}
	if !to.Empty() {
		return fmt.Errorf("%w: (%v, %v)", ErrOccupied, nx, ny)
	}
	o := from.organism
	from.Clear()
	o.X, o.Y = nx, ny
	to.organism = o
	return nil
}

//Population counts the occupied tiles
func (b *Board) Population() int {
	n := 0
	b.Walk(func(_ int, _ int, t *Tile) {
		if !t.Empty() {
			n++
		}
	})
	return n
}

//Organisms lists the organisms in row-major order
func (b *Board) Organisms() []*life.Organism {
	var out []*life.Organism
	b.Walk(func(_ int, _ int, t *Tile) {
		if !t.Empty() {
			out = append(out, t.organism)
		}
	})
	return out
}

//Walk visits every tile in row-major order
func (b *Board) Walk(cb func(x int, y int, t *Tile)) {
	for y := range b.tiles {
		for x := range b.tiles[y] {
			cb(x, y, &b.tiles[y][x])
		}
	}
}

func (b *Board) outOfBounds(x int, y int) error {
	return fmt.Errorf("%w: (%v, %v) on board %v x %v", ErrOutOfBounds, x, y, b.width, b.height)
}
