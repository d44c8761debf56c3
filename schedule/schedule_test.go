package schedule_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/valveplan/distance"
	"github.com/katalvlaran/valveplan/internal/fixture"
	"github.com/katalvlaran/valveplan/network"
	"github.com/katalvlaran/valveplan/schedule"
)

func tunnels(t *testing.T) (*network.Network, *distance.Matrix) {
	t.Helper()
	net, m, err := distance.FromNodes(fixture.Tunnels())
	require.NoError(t, err)

	return net, m
}

func TestSingleActor_Tunnels(t *testing.T) {
	net, m := tunnels(t)
	res, err := schedule.SingleActor(context.Background(), net, m)
	require.NoError(t, err)
	assert.Equal(t, 1651, res.Reward)
	assert.False(t, res.Partial)
	assert.Positive(t, res.Expanded)
	assert.Nil(t, res.Plans)
}

func TestDualActor_Tunnels(t *testing.T) {
	net, m := tunnels(t)
	res, err := schedule.DualActor(context.Background(), net, m)
	require.NoError(t, err)
	assert.Equal(t, 1707, res.Reward)
	assert.False(t, res.Partial)
}

func TestSolve_ExplicitBudgets(t *testing.T) {
	net, m := tunnels(t)
	res, err := schedule.Solve(context.Background(), net, m, 1, schedule.WithBudget(30), schedule.WithStart("AA"))
	require.NoError(t, err)
	assert.Equal(t, 1651, res.Reward)

	res, err = schedule.Solve(context.Background(), net, m, 2, schedule.WithBudget(26))
	require.NoError(t, err)
	assert.Equal(t, 1707, res.Reward)
}

func TestSolve_TinyBudgetYieldsZero(t *testing.T) {
	net, m := tunnels(t)
	hot, hm, err := distance.FromNodes([]network.Node{
		{ID: "AA", Rate: 10, Tunnels: []string{"BB"}},
		{ID: "BB", Rate: 1},
	})
	require.NoError(t, err)

	graphs := []struct {
		name string
		net  *network.Network
		m    *distance.Matrix
	}{
		{"tunnels", net, m},
		{"valuable start", hot, hm},
	}
	for _, g := range graphs {
		for actors := 1; actors <= 2; actors++ {
			for budget := 0; budget <= 2; budget++ {
				res, err := schedule.Solve(context.Background(), g.net, g.m, actors, schedule.WithBudget(budget))
				require.NoError(t, err)
				assert.Equal(t, 0, res.Reward, "%s actors=%d budget=%d", g.name, actors, budget)
			}
		}
	}
}

func TestSolve_NoValuableNodesYieldsZero(t *testing.T) {
	net, m, err := distance.FromNodes([]network.Node{
		{ID: "AA", Tunnels: []string{"BB"}},
		{ID: "BB", Tunnels: []string{"CC"}},
		{ID: "CC"},
	})
	require.NoError(t, err)
	for actors := 1; actors <= 2; actors++ {
		for _, budget := range []int{0, 5, 30, 100} {
			res, err := schedule.Solve(context.Background(), net, m, actors, schedule.WithBudget(budget))
			require.NoError(t, err)
			assert.Equal(t, 0, res.Reward)
		}
	}
}

func TestSolve_UnreachableValveIsIgnored(t *testing.T) {
	net, m, err := distance.FromNodes([]network.Node{
		{ID: "AA", Tunnels: []string{"BB"}},
		{ID: "BB", Rate: 5},
		{ID: "ZZ", Rate: 100},
	})
	require.NoError(t, err)
	res, err := schedule.SingleActor(context.Background(), net, m, schedule.WithBudget(10))
	require.NoError(t, err)
	assert.Equal(t, 5*8, res.Reward)
}

func TestSolve_ValuableStart(t *testing.T) {
	// Opening the start costs a single tick; the bound must not prune it away.
	net, m, err := distance.FromNodes([]network.Node{
		{ID: "AA", Rate: 10, Tunnels: []string{"BB"}},
		{ID: "BB", Rate: 1},
	})
	require.NoError(t, err)

	res, err := schedule.SingleActor(context.Background(), net, m, schedule.WithBudget(3))
	require.NoError(t, err)
	assert.Equal(t, 20, res.Reward)

	res, err = schedule.DualActor(context.Background(), net, m, schedule.WithBudget(3))
	require.NoError(t, err)
	assert.Equal(t, 20+1, res.Reward)

	// A budget of 2 ends the run before anything opens, even on a valuable start.
	res, err = schedule.SingleActor(context.Background(), net, m, schedule.WithBudget(2))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reward)

	res, err = schedule.DualActor(context.Background(), net, m, schedule.WithBudget(2))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reward)
}

func TestDualActor_RetireLetsTheOtherActorFinish(t *testing.T) {
	// One actor alone reaches everything worth having; a second actor adds
	// nothing but must not block the search.
	net, m, err := distance.FromNodes([]network.Node{
		{ID: "AA", Tunnels: []string{"BB"}},
		{ID: "BB", Rate: 7},
	})
	require.NoError(t, err)
	res, err := schedule.DualActor(context.Background(), net, m, schedule.WithBudget(6))
	require.NoError(t, err)
	assert.Equal(t, 7*4, res.Reward)
}

// TestSolve_MatchesBruteForce cross-checks both schedulers against an
// exhaustive search on seeded random graphs. Some seeds give the start
// location a positive rate.
func TestSolve_MatchesBruteForce(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		nodes := fixture.Random(seed, 9, 0.7)
		if seed%4 == 0 {
			nodes[0].Rate = int(seed % 17)
		}
		net, m, err := distance.FromNodes(nodes)
		require.NoError(t, err)
		start, _ := net.Index(fixture.Start)

		for _, budget := range []int{4, 11, 18} {
			res, err := schedule.SingleActor(context.Background(), net, m, schedule.WithBudget(budget))
			require.NoError(t, err)
			want := bruteForce(net, m, []int{start}, []int{budget}, net.Valuable())
			require.Equal(t, want, res.Reward, "single seed=%d budget=%d", seed, budget)

			res, err = schedule.DualActor(context.Background(), net, m, schedule.WithBudget(budget))
			require.NoError(t, err)
			want = bruteForce(net, m, []int{start, start}, []int{budget, budget}, net.Valuable())
			require.Equal(t, want, res.Reward, "dual seed=%d budget=%d", seed, budget)
		}
	}
}

func TestSolve_Deterministic(t *testing.T) {
	net, m := tunnels(t)
	for actors := 1; actors <= 2; actors++ {
		first, err := schedule.Solve(context.Background(), net, m, actors, schedule.WithPlan())
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := schedule.Solve(context.Background(), net, m, actors, schedule.WithPlan())
			require.NoError(t, err)
			if diff := cmp.Diff(first, again); diff != "" {
				t.Fatalf("actors=%d run %d differs (-first +again):\n%s", actors, i, diff)
			}
		}
	}
}

func TestSolve_WorkersAgreeWithSequential(t *testing.T) {
	for seed := int64(40); seed < 48; seed++ {
		net, m, err := distance.FromNodes(fixture.Random(seed, 14, 1.0))
		require.NoError(t, err)
		for actors := 1; actors <= 2; actors++ {
			seq, err := schedule.Solve(context.Background(), net, m, actors)
			require.NoError(t, err)
			par, err := schedule.Solve(context.Background(), net, m, actors, schedule.WithWorkers(4), schedule.WithPlan())
			require.NoError(t, err)
			assert.Equal(t, seq.Reward, par.Reward, "seed=%d actors=%d", seed, actors)
			budget := schedule.DefaultSingleBudget
			if actors == 2 {
				budget = schedule.DefaultDualBudget
			}
			replay(t, net, m, fixture.Start, budget, par)
		}
	}
}

func TestSolve_PlanReplays(t *testing.T) {
	net, m := tunnels(t)

	res, err := schedule.SingleActor(context.Background(), net, m, schedule.WithPlan())
	require.NoError(t, err)
	require.Len(t, res.Plans, 1)
	replay(t, net, m, "AA", 30, res)

	res, err = schedule.DualActor(context.Background(), net, m, schedule.WithPlan())
	require.NoError(t, err)
	require.Len(t, res.Plans, 2)
	replay(t, net, m, "AA", 26, res)
	assert.NotEmpty(t, res.Plans[0])
	assert.NotEmpty(t, res.Plans[1])
}

func TestSolve_MaxExpansionsGivesPartial(t *testing.T) {
	net, m := tunnels(t)
	res, err := schedule.SingleActor(context.Background(), net, m, schedule.WithMaxExpansions(1))
	require.ErrorIs(t, err, schedule.ErrLimitReached)
	assert.True(t, res.Partial)
	assert.LessOrEqual(t, res.Reward, 1651)
	assert.Positive(t, res.Reward)
}

func TestSolve_MaxExpansionsGivesPartialWithWorkers(t *testing.T) {
	net, m := tunnels(t)
	res, err := schedule.DualActor(context.Background(), net, m,
		schedule.WithMaxExpansions(3), schedule.WithWorkers(4))
	require.ErrorIs(t, err, schedule.ErrLimitReached)
	assert.True(t, res.Partial)
	assert.LessOrEqual(t, res.Reward, 1707)
}

func TestSolve_TimeLimitGivesPartial(t *testing.T) {
	net, m, err := distance.FromNodes(fixture.Random(7, 30, 1.0))
	require.NoError(t, err)

	full, err := schedule.DualActor(context.Background(), net, m)
	require.NoError(t, err)
	require.Greater(t, full.Expanded, 1024, "graph too small to reach a deadline check")

	res, err := schedule.DualActor(context.Background(), net, m, schedule.WithTimeLimit(time.Nanosecond))
	require.ErrorIs(t, err, schedule.ErrLimitReached)
	assert.True(t, res.Partial)
	assert.LessOrEqual(t, res.Reward, full.Reward)
}

func TestSolve_CancelledContextGivesPartial(t *testing.T) {
	net, m := tunnels(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := schedule.DualActor(ctx, net, m)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Partial)
	assert.Equal(t, 0, res.Reward)
}

func TestSolve_InvalidInput(t *testing.T) {
	net, m := tunnels(t)
	other, om, err := distance.FromNodes([]network.Node{{ID: "AA"}})
	require.NoError(t, err)
	require.NotNil(t, other)
	ctx := context.Background()

	cases := []struct {
		name   string
		net    *network.Network
		m      *distance.Matrix
		actors int
		opts   []schedule.Option
		want   error
	}{
		{"three actors", net, m, 3, nil, schedule.ErrActorCount},
		{"zero actors", net, m, 0, nil, schedule.ErrActorCount},
		{"nil network", nil, m, 1, nil, schedule.ErrNilNetwork},
		{"nil matrix", net, nil, 1, nil, schedule.ErrDistanceMismatch},
		{"foreign matrix", net, om, 1, nil, schedule.ErrDistanceMismatch},
		{"unknown start", net, m, 1, []schedule.Option{schedule.WithStart("QQ")}, schedule.ErrUnknownStart},
		{"negative budget", net, m, 1, []schedule.Option{schedule.WithBudget(-5)}, schedule.ErrNegativeBudget},
		{"negative cap", net, m, 1, []schedule.Option{schedule.WithMaxExpansions(-1)}, schedule.ErrBadLimit},
		{"negative time", net, m, 2, []schedule.Option{schedule.WithTimeLimit(-1)}, schedule.ErrBadLimit},
		{"no workers", net, m, 1, []schedule.Option{schedule.WithWorkers(0)}, schedule.ErrBadWorkers},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := schedule.Solve(ctx, tc.net, tc.m, tc.actors, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, schedule.Result{}, res)
		})
	}
}

func TestSolve_Logging(t *testing.T) {
	net, m := tunnels(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := schedule.SingleActor(context.Background(), net, m, schedule.WithLogger(log))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"search started"`)
	assert.Contains(t, buf.String(), `"msg":"search finished"`)
	assert.Contains(t, buf.String(), `"reward":1651`)

	buf.Reset()
	_, err = schedule.SingleActor(context.Background(), net, m, schedule.WithLogger(log), schedule.WithMaxExpansions(2))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

// replay walks every plan from start and checks that it is feasible, that the
// recorded ticks and releases are consistent, and that they sum to the reward.
func replay(t *testing.T, net *network.Network, m *distance.Matrix, start string, budget int, res schedule.Result) {
	t.Helper()
	s, ok := net.Index(start)
	require.True(t, ok)
	opened := map[string]bool{}
	total := 0
	for a, plan := range res.Plans {
		loc, ticks := s, budget
		for _, st := range plan {
			v, ok := net.Index(st.Valve)
			require.True(t, ok)
			require.False(t, opened[st.Valve], "actor %d reopens %s", a, st.Valve)
			opened[st.Valve] = true
			ticks = ticks - m.At(loc, v) - 1
			require.Equal(t, ticks, st.Remaining, "actor %d at %s", a, st.Valve)
			require.Positive(t, ticks)
			require.Equal(t, net.Rate(v)*ticks, st.Released)
			total += st.Released
			loc = v
		}
	}
	assert.Equal(t, res.Reward, total)
}

// bruteForce lets any actor take any remaining valve next, which covers every
// interleaving of independent per-actor schedules, including stopping early.
func bruteForce(net *network.Network, m *distance.Matrix, locs, ticks []int, remaining network.Set) int {
	best := 0
	for a := range locs {
		for _, k := range remaining.Members() {
			v := net.Valve(k)
			left := ticks[a] - m.At(locs[a], v) - 1
			if left <= 0 {
				continue
			}
			nl := append([]int(nil), locs...)
			nt := append([]int(nil), ticks...)
			nl[a], nt[a] = v, left
			got := left*net.Rate(v) + bruteForce(net, m, nl, nt, remaining.Without(k))
			if got > best {
				best = got
			}
		}
	}

	return best
}
