package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"evosim/src/life"
	"evosim/src/world"
)

//ErrInvalidOptions is returned for options out of range
var ErrInvalidOptions = errors.New("invalid simulation options")

//Options represents the configurable population and per-tick rules
type Options struct {
	Population   int     //organisms placed on Start
	GenomeSize   int     //genes per organism
	MutationRate float64 //per organism probability to mutate one gene each tick
	MoveRate     float64 //per organism probability to try a step to a neighbour tile each tick
}

//default options
const (
	DefPopulation   = 10
	DefGenomeSize   = 2
	DefMutationRate = 0.02
	DefMoveRate     = 0
)

var DefaultOptions = Options{
	Population:   DefPopulation,
	GenomeSize:   DefGenomeSize,
	MutationRate: DefMutationRate,
	MoveRate:     DefMoveRate,
}

//StepStats describes what happened during one tick
type StepStats struct {
	Tick       int
	Population int
	Mutations  int
	Moves      int
}

//neighbourhood is the Moore neighbourhood used for moves
var neighbourhood = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

//Simulation owns the board and advances it tick by tick.
//It is not safe for concurrent use.
type Simulation struct {
	board   *world.Board
	options Options
	rng     *rand.Rand
	tick    int
}

//New creates the simulation over a new width x height board.
//nil o means DefaultOptions, nil rng means a time seeded source.
func New(width int, height int, o *Options, rng *rand.Rand) (*Simulation, error) {
	if o == nil {
		o = &DefaultOptions
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b, err := world.New(width, height)
	if err != nil {
		return nil, err
	}
	return &Simulation{board: b, options: *o, rng: rng}, nil
}

//Validate checks the options ranges
func (o Options) Validate() error {
	if o.Population < 0 {
		return fmt.Errorf("%w: population %v", ErrInvalidOptions, o.Population)
	}
	if o.GenomeSize < 0 {
		return fmt.Errorf("%w: genome size %v", ErrInvalidOptions, o.GenomeSize)
	}
	if o.MutationRate < 0 || o.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate %v not in [0, 1]", ErrInvalidOptions, o.MutationRate)
	}
	if o.MoveRate < 0 || o.MoveRate > 1 {
		return fmt.Errorf("%w: move rate %v not in [0, 1]", ErrInvalidOptions, o.MoveRate)
	}
	return nil
}

//Board returns the owned board
func (s *Simulation) Board() *world.Board {
	return s.board
}

//Options returns the simulation options
func (s *Simulation) Options() Options {
	return s.options
}

//Tick returns the number of steps done since Start
func (s *Simulation) Tick() int {
	return s.tick
}

//Start resets the tick counter and populates the board.
//On error the board and the counter are left untouched.
func (s *Simulation) Start() error {
	if err := s.board.PopulateRandom(s.options.Population, s.options.GenomeSize, s.rng); err != nil {
		return err
	}
	s.tick = 0
	return nil
}

//Step advances the simulation by one tick.
//Organisms are visited in row-major order as they stood before the tick;
//each one may mutate a gene and then may step to a random empty neighbour tile.
func (s *Simulation) Step() StepStats {
	s.tick++
	st := StepStats{Tick: s.tick}
	for _, o := range s.board.Organisms() {
		if s.options.MutationRate > 0 && o.Genome.Len() > 0 && s.rng.Float64() < s.options.MutationRate {
			if err := o.Mutate(s.rng); err == nil {
				st.Mutations++
			}
		}
		if s.options.MoveRate > 0 && s.rng.Float64() < s.options.MoveRate {
			if s.tryMove(o) {
				st.Moves++
			}
		}
	}
	st.Population = s.board.Population()
	return st
}

//Spawn places a new random organism on the empty tile x, y
func (s *Simulation) Spawn(x int, y int) (*life.Organism, error) {
	if _, err := s.board.Tile(x, y); err != nil {
		return nil, err
	}
	o := life.NewOrganism(x, y, s.options.GenomeSize, s.rng)
	if err := s.board.Place(o); err != nil {
		return nil, err
	}
	return o, nil
}

//Clear empties the board and resets the tick counter
func (s *Simulation) Clear() {
	s.board.Clear()
	s.tick = 0
}

func (s *Simulation) tryMove(o *life.Organism) bool {
	d := neighbourhood[s.rng.Intn(len(neighbourhood))]
	nx, ny := o.X+d[0], o.Y+d[1]
	t, err := s.board.Tile(nx, ny)
	if err != nil || !t.Empty() {
		return false
	}
	return s.board.Move(o.X, o.Y, nx, ny) == nil
}
