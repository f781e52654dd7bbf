package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"evosim/src/config"
	"evosim/src/simulation"
	"evosim/src/world"
)

//Recorder writes per-tick records to telemetry.csv in the output directory.
//A nil *Recorder drops everything.
type Recorder struct {
	dir           string
	runID         string
	file          *os.File
	headerWritten bool
}

//NewRecorder creates the output directory and telemetry.csv.
//Returns nil if dir is empty (output disabled).
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	return &Recorder{dir: dir, runID: uuid.NewString(), file: f}, nil
}

//RunID identifies the run in every written row.
func (r *Recorder) RunID() string {
	if r == nil {
		return ""
	}
	return r.runID
}

//WriteConfig saves the run configuration as config.yaml.
func (r *Recorder) WriteConfig(cfg *config.Config) error {
	if r == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(r.dir, "config.yaml"))
}

//RecordStep collects and writes the record for a finished step.
func (r *Recorder) RecordStep(st simulation.StepStats, b *world.Board) error {
	if r == nil {
		return nil
	}
	return r.Write(Collect(r.runID, st, b))
}

//Write appends one record, the header goes with the first one.
func (r *Recorder) Write(rec Record) error {
	if r == nil {
		return nil
	}
	records := []Record{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

//Close flushes and closes the file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.file.Close()
}
