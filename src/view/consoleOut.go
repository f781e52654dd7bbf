package view

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"evosim/src/engine"
	"evosim/src/world"
)

//ConsoleOut reports the progress of a non-interactive run and prints the final board
type ConsoleOut struct {
	e         engine.Controller
	out       io.Writer
	logger    *zap.Logger
	startTime time.Time
	lastLog   int
	reported  bool
	done      chan struct{}
}

func NewConsoleOut(out io.Writer, logger *zap.Logger) *ConsoleOut {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleOut{out: out, logger: logger, done: make(chan struct{})}
}

//Done is closed once the final board has been printed
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) Refresh() {
	st := c.e.Status()
	switch st.RunningMode {
	case engine.RunningStateFinished:
		if c.reported {
			return
		}
		c.reported = true
		defer close(c.done)
		c.logger.Info("finished",
			zap.Int("last_iteration", st.IterationNum),
			zap.Int("population", st.Population),
			zap.Duration("total_time", time.Since(c.startTime).Round(time.Millisecond)),
		)
		var err error
		c.e.View(func(b *world.Board) {
			err = RenderBoard(c.out, b, 0, 0)
		})
		if err == nil {
			_, err = fmt.Fprintln(c.out)
		}
		if err != nil {
			c.logger.Warn("failed to print the board", zap.Error(err))
		}
	case engine.RunningStateRun, engine.RunningStateManual:
		if st.IterationNum != c.lastLog && st.IterationNum%10 == 0 {
			c.lastLog = st.IterationNum
			c.logger.Info("iterations done",
				zap.Int("iteration", st.IterationNum),
				zap.Int("population", st.Population),
				zap.Int("mutations", st.LastStep.Mutations),
			)
		}
	}
}

func (c *ConsoleOut) Register(e engine.Controller) {
	c.e = e
	o := e.Options()
	so := e.SimulationOptions()
	var w, h int
	e.View(func(b *world.Board) {
		w, h = b.Width(), b.Height()
	})
	c.logger.Info("running configuration",
		zap.String("dimension", fmt.Sprintf("%v x %v", w, h)),
		zap.Duration("interval", o.Interval),
		zap.Int("max_steps", o.MaxSteps),
		zap.Int("population", so.Population),
		zap.Int("genome_size", so.GenomeSize),
		zap.Float64("mutation_rate", so.MutationRate),
		zap.Float64("move_rate", so.MoveRate),
	)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	c.logger.Info("simulation started")
}
