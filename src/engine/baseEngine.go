package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"evosim/src/simulation"
	"evosim/src/world"
)

//Options represents the engine's schedule
type Options struct {
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
}

//Status represents the status of the engine at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	Population    int
	LastStep      simulation.StepStats
	IterationTime time.Duration
	Err           error //the last command error, nil when the last command succeeded
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(e Controller)
	Start()
}

//StepRecorder receives every finished step, telemetry.Recorder implements it
type StepRecorder interface {
	RecordStep(st simulation.StepStats, b *world.Board) error
}

//The engine running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefMaxSkippedTicks    = 5
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultOptions = Options{
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
}

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "manual"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "run"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//Engine drives one Simulation.
//Every command is executed by the main loop goroutine, so the simulation has a single caller.
type Engine struct {
	options Options
	sim     *simulation.Simulation
	state   struct {
		Status
		sync.Mutex
	}
	//guards the board against viewers reading it while a command runs
	boardMu   sync.RWMutex
	stateCh   chan Status
	views     []Viewer
	recorder  StepRecorder
	logger    *zap.Logger
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	runGen    atomic.Uint64 //bumped by every run, older run loops exit
}

//New creates the Engine instance and starts its main loop.
//stateCh may be nil, logger may be nil.
func New(sim *simulation.Simulation, o *Options, stateCh chan Status, logger *zap.Logger) *Engine {
	if o == nil {
		o = &DefaultOptions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		options:   *o,
		sim:       sim,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		stateCh:   stateCh,
		logger:    logger,
	}
	e.state.Population = sim.Board().Population()
	go e.mainLoop()
	return e
}

//SetRecorder registers the step recorder, must be called before Run
func (e *Engine) SetRecorder(r StepRecorder) {
	e.recorder = r
}

//RegisterViewer registers the viewer - the engine will call the viewer when the state is changed
func (e *Engine) RegisterViewer(v Viewer) {
	e.views = append(e.views, v)
	v.Register(e)
}

//StateCh returns the channel with the engine's status updates
func (e *Engine) StateCh() chan Status {
	return e.stateCh
}

//Status returns current engine status represented by Status struct
func (e *Engine) Status() Status {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.Status
}

//Options returns current engine configuration represented by Options struct
func (e *Engine) Options() Options {
	return e.options
}

//SimulationOptions returns the options of the driven simulation
func (e *Engine) SimulationOptions() simulation.Options {
	return e.sim.Options()
}

//View calls fn with the board locked for reading
func (e *Engine) View(fn func(b *world.Board)) {
	e.boardMu.RLock()
	defer e.boardMu.RUnlock()
	fn(e.sim.Board())
}

//Start populates the board, returns immediately
func (e *Engine) Start() {
	e.send(e.start)
}

//Run starts the simulation, returns immediately
func (e *Engine) Run() {
	e.send(e.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (e *Engine) Stop() {
	e.send(e.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (e *Engine) Step() {
	e.send(e.step)
}

//Clear empties the board and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (e *Engine) Clear() {
	e.send(e.clear)
}

//ToggleCell spawns an organism on the empty tile x, y or removes the one living there
func (e *Engine) ToggleCell(x int, y int) {
	e.send(func() { e.toggleCell(x, y) })
}

//Close stops the main loop, returns immediately
//commands sent after Close are dropped
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.closeCh) })
}

//send queues the command unless the engine is closed
func (e *Engine) send(cmd func()) {
	select {
	case e.controlCh <- cmd:
	case <-e.closeCh:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (e *Engine) mainLoop() {
	for {
		select {
		case cmd := <-e.controlCh:
			cmd()
		case <-e.closeCh:
			return
		}
	}
}

//switchRunningState switch the state of the engine to RunningState
//also writes the new state to the stateCh to signal upper control software
func (e *Engine) switchRunningState(to RunningState) {
	e.state.Lock()
	e.state.RunningMode = to
	st := e.state.Status
	e.state.Unlock()
	if e.stateCh != nil {
		e.stateCh <- st
	}
}

func (e *Engine) runningMode() RunningState {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.RunningMode
}

func (e *Engine) setErr(err error) {
	e.state.Lock()
	e.state.Err = err
	e.state.Unlock()
}

//start populates the board and resets the counters
func (e *Engine) start() {
	e.boardMu.Lock()
	err := e.sim.Start()
	population := e.sim.Board().Population()
	e.boardMu.Unlock()

	e.state.Lock()
	e.state.Err = err
	if err == nil {
		e.state.IterationNum = 0
		e.state.LastStep = simulation.StepStats{}
		e.state.Population = population
	}
	e.state.Unlock()

	if err != nil {
		e.logger.Error("failed to populate the board", zap.Error(err))
	} else {
		e.logger.Info("board populated",
			zap.Int("population", population),
			zap.Int("genome_size", e.sim.Options().GenomeSize),
		)
	}
	e.switchRunningState(RunningStateManual)
	e.refreshView()
}

//run starts the simulation running cycle
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (e *Engine) run() {
	if mode := e.runningMode(); mode == RunningStateRun || mode == RunningStateFinished {
		return
	}
	e.switchRunningState(RunningStateRun)
	go e.runLoop(e.runGen.Add(1))
}

//runLoop queues one step per interval while the engine runs and gen is the current run.
//A loop left over from a stopped run exits instead of stepping alongside the new one.
func (e *Engine) runLoop(gen uint64) {
	current := func() bool {
		return e.runGen.Load() == gen && e.runningMode() == RunningStateRun
	}
	skipped := 0
	done := make(chan struct{}, 1)
	for current() {
		if skipped > e.options.MaxSkippedTicks {
			e.logger.Warn("too many skipped ticks, finishing", zap.Int("skipped", skipped))
			e.send(func() {
				if current() {
					e.switchRunningState(RunningStateFinished)
					e.refreshView()
				}
			})
			return
		}
		//skip the tick if the control loop is still busy
		select {
		case e.controlCh <- func() {
			if current() {
				e.step()
			}
			done <- struct{}{}
		}:
			skipped = 0
			select {
			case <-done:
			case <-e.closeCh:
				return
			}
		case <-e.closeCh:
			return
		default:
			skipped++
		}
		if e.options.Interval > 0 {
			time.Sleep(e.options.Interval)
		}
	}
}

//stop stops the running cycle
func (e *Engine) stop() {
	if e.runningMode() == RunningStateRun {
		e.switchRunningState(RunningStateManual)
	}
}

//step advances the simulation by one tick
func (e *Engine) step() {
	rm := e.runningMode()
	if rm == RunningStateFinished {
		return
	}
	finished := false
	defer func() {
		if finished {
			e.switchRunningState(RunningStateFinished)
			st := e.Status()
			e.logger.Info("simulation finished",
				zap.Int("iteration", st.IterationNum),
				zap.Int("population", st.Population),
			)
		} else {
			e.switchRunningState(rm)
		}
		e.refreshView()
	}()

	maxIter := e.options.MaxSteps
	if maxIter != 0 && e.sim.Tick() >= maxIter {
		finished = true
		return
	}
	e.switchRunningState(RunningStateStep)

	start := time.Now()
	e.boardMu.Lock()
	st := e.sim.Step()
	e.boardMu.Unlock()
	elapsed := time.Since(start)

	if e.recorder != nil {
		e.boardMu.RLock()
		err := e.recorder.RecordStep(st, e.sim.Board())
		e.boardMu.RUnlock()
		if err != nil {
			e.logger.Warn("failed to record step", zap.Int("tick", st.Tick), zap.Error(err))
		}
	}

	e.state.Lock()
	e.state.IterationNum = st.Tick
	e.state.Population = st.Population
	e.state.LastStep = st
	e.state.IterationTime = elapsed
	e.state.Err = nil
	e.state.Unlock()

	e.logger.Debug("step",
		zap.Int("tick", st.Tick),
		zap.Int("population", st.Population),
		zap.Int("mutations", st.Mutations),
		zap.Int("moves", st.Moves),
		zap.Duration("elapsed", elapsed),
	)

	if st.Population == 0 || (maxIter != 0 && st.Tick >= maxIter) {
		finished = true
	}
}

//clear clears the board data, reset all counters
func (e *Engine) clear() {
	e.boardMu.Lock()
	e.sim.Clear()
	e.boardMu.Unlock()

	e.state.Lock()
	e.state.IterationNum = 0
	e.state.Population = 0
	e.state.LastStep = simulation.StepStats{}
	e.state.Err = nil
	e.state.Unlock()

	e.switchRunningState(RunningStateManual)
	e.refreshView()
}

//toggleCell inverses the tile at x, y
func (e *Engine) toggleCell(x int, y int) {
	e.boardMu.Lock()
	removed, err := e.sim.Board().Remove(x, y)
	if err == nil && removed == nil {
		_, err = e.sim.Spawn(x, y)
	}
	population := e.sim.Board().Population()
	e.boardMu.Unlock()

	e.state.Lock()
	e.state.Population = population
	e.state.Err = err
	e.state.Unlock()
	if err != nil {
		e.logger.Debug("toggle cell rejected", zap.Int("x", x), zap.Int("y", y), zap.Error(err))
	}
	e.refreshView()
}

//refreshView calls Refresh event for all registered views
func (e *Engine) refreshView() {
	for _, v := range e.views {
		v.Refresh()
	}
}
