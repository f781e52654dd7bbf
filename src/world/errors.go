package world

import "errors"

var (
	//ErrCapacity is returned when more organisms are requested than the board has tiles
	ErrCapacity = errors.New("not enough tiles")
	//ErrOutOfBounds is returned on access outside the grid
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	//ErrOccupied is returned when the target tile already holds an organism
	ErrOccupied = errors.New("tile is occupied")
	//ErrInvalidSize is returned for negative board dimensions
	ErrInvalidSize = errors.New("invalid board size")
	//ErrInvalidArgument is returned for negative counts or genome sizes and nil organisms
	ErrInvalidArgument = errors.New("invalid argument")
)
