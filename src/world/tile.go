package world

import "evosim/src/life"

//Tile is a single board cell holding at most one organism.
//The zero value is an empty tile.
type Tile struct {
	organism *life.Organism
}

//Organism returns the organism living on the tile or nil
func (t *Tile) Organism() *life.Organism {
	return t.organism
}

//Empty reports whether no organism lives on the tile
func (t *Tile) Empty() bool {
	return t.organism == nil
}

//Clear removes the organism, clearing an empty tile is a no-op
func (t *Tile) Clear() {
	t.organism = nil
}
