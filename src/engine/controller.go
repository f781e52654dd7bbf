package engine

import (
	"evosim/src/simulation"
	"evosim/src/world"
)

//Controller is the command surface used by viewers and the entry point
type Controller interface {
	Status() Status
	Options() Options
	SimulationOptions() simulation.Options
	View(fn func(b *world.Board))
	StateCh() chan Status
	RegisterViewer(v Viewer)
	Start()
	Run()
	Stop()
	Step()
	Clear()
	ToggleCell(x int, y int)
	Close()
}
