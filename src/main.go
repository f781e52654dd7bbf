package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/integrii/flaggy"
	"go.uber.org/zap"

	"evosim/src/config"
	"evosim/src/engine"
	"evosim/src/logging"
	"evosim/src/simulation"
	"evosim/src/telemetry"
	"evosim/src/view"
)

type EnvOptions struct {
	configPath  string
	interactive bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	eo, cfg, err := initOptions()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	seed := cfg.Run.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	so := cfg.SimulationOptions()
	sim, err := simulation.New(cfg.Board.Width, cfg.Board.Height, &so, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	recorder, err := telemetry.NewRecorder(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Warn("failed to close telemetry", zap.Error(err))
		}
	}()
	if err := recorder.WriteConfig(cfg); err != nil {
		return err
	}

	var stateCh chan engine.Status
	if !eo.interactive {
		stateCh = make(chan engine.Status, 10) //the buffered channel to getting the engine status
	}

	eng := engine.New(sim, &engine.Options{
		Interval:        cfg.Run.Interval,
		MaxSteps:        cfg.Run.MaxSteps,
		MaxSkippedTicks: cfg.Run.MaxSkippedTicks,
	}, stateCh, logger)
	defer eng.Close()
	if recorder != nil {
		eng.SetRecorder(recorder)
		logger.Info("telemetry enabled", zap.String("dir", cfg.Telemetry.OutputDir), zap.String("run_id", recorder.RunID()))
	}
	logger.Info("simulation created", zap.Int64("seed", seed))

	if eo.interactive {
		v, err := view.NewViewTerminal()
		if err != nil {
			return err
		}
		eng.RegisterViewer(v)
		eng.Start()
		v.Start()
		eng.Stop()
		return v.Err()
	}

	out := view.NewConsoleOut(os.Stdout, logger)
	eng.RegisterViewer(out)
	out.Start()
	eng.Start()
	eng.Run()
	for st := range stateCh {
		if st.Err != nil {
			return st.Err
		}
		if st.RunningMode == engine.RunningStateFinished {
			break
		}
	}
	<-out.Done()
	return nil
}

func initOptions() (eo *EnvOptions, cfg *config.Config, err error) {
	eo = &EnvOptions{}
	//flags are parsed twice: first for the config path, then on top of the loaded config
	flags := &config.Config{}
	parser := newParser(eo, flags)
	if err = parser.Parse(); err != nil {
		return nil, nil, err
	}

	cfg, err = config.Load(eo.configPath)
	if err != nil {
		return nil, nil, err
	}
	parser = newParser(eo, cfg)
	if err = parser.Parse(); err != nil {
		return nil, nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return eo, cfg, nil
}

func newParser(eo *EnvOptions, cfg *config.Config) *flaggy.Parser {
	p := flaggy.NewParser("evosim")
	p.Description = "Grid based artificial life simulation"
	p.ShowHelpOnUnexpected = true
	p.String(&eo.configPath, "c", "config", "Path to config.yaml (empty = use defaults)")
	p.Int(&cfg.Board.Width, "x", "width", "Width of the board")
	p.Int(&cfg.Board.Height, "y", "height", "Height of the board")
	p.Int(&cfg.Population.Count, "p", "population", "Organisms placed on start")
	p.Int(&cfg.Population.GenomeSize, "g", "genomeSize", "Genes per organism")
	p.Float64(&cfg.Dynamics.MutationRate, "m", "mutationRate", "Per organism mutation probability per step")
	p.Float64(&cfg.Dynamics.MoveRate, "v", "moveRate", "Per organism move probability per step")
	p.Duration(&cfg.Run.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	p.Int(&cfg.Run.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps (0 = unlimited)")
	p.Int64(&cfg.Run.Seed, "d", "seed", "Random seed (0 = time based)")
	p.String(&cfg.Telemetry.OutputDir, "o", "output", "Directory for telemetry.csv and config.yaml")
	p.String(&cfg.Log.Level, "l", "logLevel", "Log level [debug|info|warn|error]")
	p.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	return p
}
