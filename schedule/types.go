package schedule

import (
	"errors"
	"log/slog"
	"time"
)

// Sentinel errors returned by the schedulers.
var (
	// ErrNilNetwork indicates a nil *network.Network.
	ErrNilNetwork = errors.New("schedule: network is nil")

	// ErrDistanceMismatch indicates a nil matrix or one built for another network.
	ErrDistanceMismatch = errors.New("schedule: distance matrix does not match network")

	// ErrUnknownStart indicates that the start location is not a node of the network.
	ErrUnknownStart = errors.New("schedule: start location not found")

	// ErrActorCount indicates an actor count other than 1 or 2.
	ErrActorCount = errors.New("schedule: actor count must be 1 or 2")

	// ErrNegativeBudget indicates a tick budget below zero.
	ErrNegativeBudget = errors.New("schedule: budget must be non-negative")

	// ErrBadLimit indicates a negative expansion cap or time limit.
	ErrBadLimit = errors.New("schedule: limits must be non-negative")

	// ErrBadWorkers indicates a worker count below one.
	ErrBadWorkers = errors.New("schedule: workers must be at least 1")

	// ErrLimitReached indicates that an expansion cap or time limit stopped the
	// search before optimality was proven.
	ErrLimitReached = errors.New("schedule: search limit reached")
)

const (
	// DefaultStart is the conventional start location.
	DefaultStart = "AA"

	// DefaultSingleBudget is the reference budget for one actor.
	DefaultSingleBudget = 30

	// DefaultDualBudget is the reference per-actor budget for two actors.
	DefaultDualBudget = 26

	// AutoBudget selects DefaultSingleBudget or DefaultDualBudget by actor count.
	AutoBudget = -1

	// deadTicks is the budget at or below which an actor cannot gain anything:
	// the nearest other valve takes at least one move and one open.
	deadTicks = 2
)

// Step is one opening in a reconstructed plan.
type Step struct {
	// Valve is the opened node's ID.
	Valve string

	// Remaining is the number of ticks left after the opening completed.
	Remaining int

	// Released is the flow this opening contributes (rate × Remaining).
	Released int
}

// Result is the outcome of one search.
type Result struct {
	// Reward is the best total flow found. Optimal unless Partial is set.
	Reward int

	// Partial reports that a cap or cancellation stopped the search early.
	Partial bool

	// Expanded counts the states whose children were generated.
	Expanded int

	// Plans holds one opening sequence per actor when WithPlan is set.
	Plans [][]Step
}

// Options configures a search. Use DefaultOptions and Option values.
type Options struct {
	Start         string        // start location of every actor
	Budget        int           // ticks per actor; AutoBudget picks by actor count
	MaxExpansions int           // 0 = unlimited
	TimeLimit     time.Duration // 0 = unlimited
	Workers       int           // 1 = sequential
	TrackPlan     bool          // reconstruct Result.Plans
	Logger        *slog.Logger  // nil = discard
}

// Option represents a functional option for configuring a search.
type Option func(*Options)

// DefaultOptions returns the reference configuration:
// start "AA", automatic budget, no limits, one worker, no plan, no logging.
func DefaultOptions() Options {
	return Options{
		Start:   DefaultStart,
		Budget:  AutoBudget,
		Workers: 1,
	}
}

// WithStart sets the start location shared by all actors.
func WithStart(id string) Option {
	return func(o *Options) { o.Start = id }
}

// WithBudget sets the per-actor tick budget.
func WithBudget(ticks int) Option {
	return func(o *Options) { o.Budget = ticks }
}

// WithMaxExpansions caps the number of expanded states (0 disables the cap).
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithTimeLimit caps wall-clock search time (0 disables the cap).
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithWorkers shards the search over n goroutines.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithPlan enables plan reconstruction in Result.Plans.
func WithPlan() Option {
	return func(o *Options) { o.TrackPlan = true }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// validateOptions checks option values that do not depend on the network.
func validateOptions(o Options) error {
	if o.Budget < 0 && o.Budget != AutoBudget {
		return ErrNegativeBudget
	}
	if o.MaxExpansions < 0 || o.TimeLimit < 0 {
		return ErrBadLimit
	}
	if o.Workers < 1 {
		return ErrBadWorkers
	}

	return nil
}
