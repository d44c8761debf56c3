package schedule

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/valveplan/bound"
	"github.com/katalvlaran/valveplan/distance"
	"github.com/katalvlaran/valveplan/network"
)

// SingleActor returns the best reward one actor can release.
// It is Solve with actors == 1.
func SingleActor(ctx context.Context, net *network.Network, dist *distance.Matrix, opts ...Option) (Result, error) {
	return Solve(ctx, net, dist, 1, opts...)
}

// DualActor returns the best reward two cooperating actors can release.
// It is Solve with actors == 2.
func DualActor(ctx context.Context, net *network.Network, dist *distance.Matrix, opts ...Option) (Result, error) {
	return Solve(ctx, net, dist, 2, opts...)
}

// Solve runs the best-first search for 1 or 2 actors.
//
// Preconditions and validation (in order):
//  1. options are well-formed (ErrNegativeBudget, ErrBadLimit, ErrBadWorkers);
//  2. actors is 1 or 2 (ErrActorCount);
//  3. net is non-nil (ErrNilNetwork) and dist matches it (ErrDistanceMismatch);
//  4. the start location exists (ErrUnknownStart).
//
// Returns:
//   - Result with Partial == false and a nil error when optimality was proven.
//   - Result with Partial == true and an error wrapping ErrLimitReached (or the
//     context error) when a limit stopped the search. Reward is still the best
//     reward found and is a valid, possibly sub-optimal, schedule value.
//
// Determinism: the optimal reward is identical across runs and worker
// counts. With several workers the reported plan may differ between runs
// when more than one schedule reaches the optimum.
func Solve(ctx context.Context, net *network.Network, dist *distance.Matrix, actors int, opts ...Option) (Result, error) {
	return solve(ctx, net, dist, actors, nil, opts...)
}

// solve is Solve with an optional hook observing every incumbent improvement.
func solve(ctx context.Context, net *network.Network, dist *distance.Matrix, actors int,
	onImprove func(int), opts ...Option) (Result, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}
	if err := validateOptions(cfg); err != nil {
		return Result{}, err
	}

	// 2) Validate inputs.
	if actors != 1 && actors != 2 {
		return Result{}, fmt.Errorf("%w: got %d", ErrActorCount, actors)
	}
	if net == nil {
		return Result{}, ErrNilNetwork
	}
	if dist == nil || dist.Len() != net.Len() {
		return Result{}, ErrDistanceMismatch
	}
	start, ok := net.Index(cfg.Start)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStart, cfg.Start)
	}
	if cfg.Budget == AutoBudget {
		cfg.Budget = DefaultSingleBudget
		if actors == 2 {
			cfg.Budget = DefaultDualBudget
		}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// 3) Engine.
	e := &engine{
		net:     net,
		dist:    dist,
		est:     bound.New(net),
		actors:  actors,
		start:   start,
		budget:  cfg.Budget,
		maxExp:  int64(cfg.MaxExpansions),
		workers: cfg.Workers,
	}
	e.best.track = cfg.TrackPlan
	e.best.onImprove = onImprove
	began := time.Now()
	if cfg.TimeLimit > 0 {
		e.useDL = true
		e.dl = began.Add(cfg.TimeLimit)
	}
	log.Debug("search started",
		"actors", actors, "budget", cfg.Budget, "start", cfg.Start,
		"valuable", net.NumValuable(), "workers", cfg.Workers)

	// 4) Run.
	err := ctx.Err()
	if err != nil {
		err = fmt.Errorf("schedule: search interrupted: %w", err)
	} else if e.workers > 1 {
		err = e.runSharded(ctx)
	} else {
		err = e.search(ctx, e.root())
	}

	// 5) Finalize.
	res := Result{
		Reward:   e.best.load(),
		Partial:  err != nil,
		Expanded: int(e.expanded.Load()),
	}
	if cfg.TrackPlan {
		res.Plans = e.plans()
	}
	if err != nil {
		log.Warn("search stopped early",
			"reason", err, "reward", res.Reward, "expanded", res.Expanded)

		return res, err
	}
	log.Debug("search finished",
		"reward", res.Reward, "expanded", res.Expanded, "elapsed", time.Since(began))

	return res, nil
}

// runSharded expands the root once and searches every child as an
// independent shard on a bounded errgroup. Shards share the incumbent, so a
// shard stops as soon as its best remaining priority cannot beat it.
func (e *engine) runSharded(ctx context.Context) error {
	root := e.root()
	e.best.offer(root.reward, root.trail)
	if e.terminal(root) {
		return nil
	}
	e.expanded.Add(1)

	var shards []*state
	e.expand(root, func(c *state) {
		c.seq = uint64(len(shards))
		shards = append(shards, c)
	})
	// Most promising shards first: they raise the incumbent early.
	sort.SliceStable(shards, func(i, j int) bool { return shards[i].priority > shards[j].priority })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	var s *state
	for _, s = range shards {
		seed := s
		g.Go(func() error { return e.search(gctx, seed) })
	}

	// The first failing shard cancels gctx; Wait reports that first error.
	return g.Wait()
}
