// Package scenario loads YAML scenario files (a valve graph plus one or more
// runs, each naming an actor count and a budget) and runs them through the
// schedulers.
//
// File layout (version 1):
//
//	version: 1
//	name: tunnels
//	start: AA
//	runs:
//	  - {name: alone, actors: 1, budget: 30}
//	  - {name: with-elephant, actors: 2, budget: 26}
//	valves:
//	  - {id: AA, rate: 0, tunnels: [DD, II, BB]}
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/valveplan/distance"
	"github.com/katalvlaran/valveplan/network"
	"github.com/katalvlaran/valveplan/schedule"
)

// Version is the only supported file version.
const Version = 1

// Sentinel errors for scenario files.
var (
	// ErrDecode indicates malformed YAML.
	ErrDecode = errors.New("scenario: cannot decode file")

	// ErrVersion indicates an unsupported version field.
	ErrVersion = errors.New("scenario: unsupported version")

	// ErrNoRuns indicates a file without any run.
	ErrNoRuns = errors.New("scenario: no runs defined")

	// ErrInvalidRun indicates a run with a bad actor count or budget.
	ErrInvalidRun = errors.New("scenario: invalid run")

	// ErrNilFile indicates a nil *File.
	ErrNilFile = errors.New("scenario: file is nil")
)

// Valve is one node as written in a scenario file.
type Valve struct {
	ID      string   `yaml:"id"`
	Rate    int      `yaml:"rate"`
	Tunnels []string `yaml:"tunnels"`
}

// Run is one scheduler invocation.
type Run struct {
	Name   string `yaml:"name"`
	Actors int    `yaml:"actors"`
	Budget int    `yaml:"budget"`
}

// File is a decoded scenario file.
type File struct {
	Version int     `yaml:"version"`
	Name    string  `yaml:"name"`
	Start   string  `yaml:"start"`
	Runs    []Run   `yaml:"runs"`
	Valves  []Valve `yaml:"valves"`
}

// StartID returns the configured start, defaulting to schedule.DefaultStart.
func (f *File) StartID() string {
	if f.Start == "" {
		return schedule.DefaultStart
	}

	return f.Start
}

// Nodes converts the valves into network input.
func (f *File) Nodes() []network.Node {
	out := make([]network.Node, len(f.Valves))
	var (
		i int
		v Valve
	)
	for i, v = range f.Valves {
		out[i] = network.Node{ID: v.ID, Rate: v.Rate, Tunnels: v.Tunnels}
	}

	return out
}

// Validate checks the file-level fields. Graph consistency is checked by
// network.New when the scenario runs.
func (f *File) Validate() error {
	if f == nil {
		return ErrNilFile
	}
	if f.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	if len(f.Runs) == 0 {
		return ErrNoRuns
	}
	var (
		i int
		r Run
	)
	for i, r = range f.Runs {
		if r.Actors != 1 && r.Actors != 2 {
			return fmt.Errorf("%w: run #%d %q has %d actors", ErrInvalidRun, i, r.Name, r.Actors)
		}
		if r.Budget < 0 {
			return fmt.Errorf("%w: run #%d %q has budget %d", ErrInvalidRun, i, r.Name, r.Budget)
		}
	}

	return nil
}

// Parse decodes and validates a scenario from raw YAML.
func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Outcome is the result of one run.
type Outcome struct {
	Run    Run
	Result schedule.Result
}

// Execute builds the network and distance matrix once and performs every run
// in file order. opts are passed to each scheduler call after the run's own
// start and budget, so callers may add limits, workers or a logger.
//
// A run stopped by a limit still yields its partial Outcome; the first such
// error is returned alongside all outcomes.
func Execute(ctx context.Context, f *File, log *slog.Logger, opts ...schedule.Option) ([]Outcome, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	net, dist, err := distance.FromNodes(f.Nodes())
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", f.Name, err)
	}

	out := make([]Outcome, 0, len(f.Runs))
	var (
		r        Run
		res      schedule.Result
		firstErr error
	)
	for _, r = range f.Runs {
		runOpts := append([]schedule.Option{
			schedule.WithStart(f.StartID()),
			schedule.WithBudget(r.Budget),
			schedule.WithLogger(log),
		}, opts...)
		res, err = schedule.Solve(ctx, net, dist, r.Actors, runOpts...)
		if err != nil && !res.Partial {
			return out, fmt.Errorf("scenario %q run %q: %w", f.Name, r.Name, err)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("scenario %q run %q: %w", f.Name, r.Name, err)
		}
		log.Info("run finished",
			"scenario", f.Name, "run", r.Name, "actors", r.Actors,
			"budget", r.Budget, "reward", res.Reward, "partial", res.Partial)
		out = append(out, Outcome{Run: r, Result: res})
	}

	return out, firstErr
}
