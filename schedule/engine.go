package schedule

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/valveplan/bound"
	"github.com/katalvlaran/valveplan/distance"
	"github.com/katalvlaran/valveplan/network"
)

// checkMask sets how often (in pops) the loop looks at ctx and the deadline.
const checkMask = 1023

// incumbent is the best-so-far reward. It only ever grows. The reward is an
// atomic so sharded workers can prune against it without locking; the plan
// trail is guarded by mu and only kept when requested.
type incumbent struct {
	reward atomic.Int64

	mu        sync.Mutex
	track     bool
	trail     *step
	seen      int // largest reward published to trail/onImprove
	onImprove func(int)
}

func (b *incumbent) load() int { return int(b.reward.Load()) }

// offer raises the incumbent to r if r is larger.
func (b *incumbent) offer(r int, tr *step) {
	var cur int64
	for {
		cur = b.reward.Load()
		if int64(r) <= cur {
			return
		}
		if b.reward.CompareAndSwap(cur, int64(r)) {
			break
		}
	}
	if !b.track && b.onImprove == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if r <= b.seen {
		return
	}
	b.seen = r
	if b.track {
		b.trail = tr
	}
	if b.onImprove != nil {
		b.onImprove(r)
	}
}

// engine holds the read-only inputs and shared counters of one search
// invocation. Queues live on the stack of search, one per shard.
type engine struct {
	net     *network.Network
	dist    *distance.Matrix
	est     *bound.Estimator
	actors  int
	start   int
	budget  int
	maxExp  int64
	useDL   bool
	dl      time.Time
	workers int

	best     incumbent
	expanded atomic.Int64
}

// root is the initial state: every actor at start with the full budget.
func (e *engine) root() *state {
	s := &state{remaining: e.net.Valuable()}
	var i int
	for i = 0; i < e.actors; i++ {
		s.actors[i] = actor{loc: e.start, ticks: e.budget}
	}
	s.priority = s.reward + e.estimate(s)

	return s
}

// credit is the budget handed to the bound for actor a. An actor standing on
// a still-closed valve can open it for 1 tick instead of the relaxed 2, so it
// gets one extra tick. Only the bound sees the credit; terminal uses raw ticks.
func (e *engine) credit(a actor, remaining network.Set) int {
	if k, ok := e.net.Slot(a.loc); ok && remaining.Has(k) {
		return a.ticks + 1
	}

	return a.ticks
}

func (e *engine) estimate(s *state) int {
	if e.actors == 1 {
		return e.est.Single(s.remaining, e.credit(s.actors[0], s.remaining))
	}

	return e.est.Dual(s.remaining,
		e.credit(s.actors[0], s.remaining),
		e.credit(s.actors[1], s.remaining))
}

// terminal reports a state with nothing left to gain.
func (e *engine) terminal(s *state) bool {
	if s.remaining.Empty() {
		return true
	}
	var i int
	for i = 0; i < e.actors; i++ {
		if s.actors[i].ticks > deadTicks {
			return false
		}
	}

	return true
}

// mover picks the actor with strictly more ticks; actor 0 wins ties.
func (e *engine) mover(s *state) int {
	if e.actors == 2 && s.actors[1].ticks > s.actors[0].ticks {
		return 1
	}

	return 0
}

// expand calls emit for every child of s.
//
// Children:
//   - the mover opens any remaining valve it can reach with ticks to spare;
//     openings that would leave ≤ 0 ticks (including unreachable ones) earn
//     nothing and are skipped;
//   - with two actors, the mover retires (ticks → 0) while the other actor
//     can still act.
func (e *engine) expand(s *state, emit func(*state)) {
	i := e.mover(s)
	a := s.actors[i]

	var (
		k, v, left int
		rest       = s.remaining
		ok         bool
		c          *state
	)
	for {
		if k, rest, ok = rest.Next(); !ok {
			break
		}
		v = e.net.Valve(k)
		left = a.ticks - e.dist.At(a.loc, v) - 1
		if left <= 0 {
			continue
		}
		c = &state{
			actors:    s.actors,
			reward:    s.reward + left*e.net.Rate(v),
			remaining: s.remaining.Without(k),
		}
		c.actors[i] = actor{loc: v, ticks: left}
		if e.best.track {
			c.trail = &step{prev: s.trail, actor: i, node: v, ticks: left, reward: left * e.net.Rate(v)}
		} else {
			c.trail = s.trail
		}
		c.priority = c.reward + e.estimate(c)
		emit(c)
	}

	if e.actors == 2 && s.actors[1-i].ticks > deadTicks {
		c = &state{
			actors:    s.actors,
			reward:    s.reward,
			remaining: s.remaining,
			trail:     s.trail,
		}
		c.actors[i].ticks = 0
		c.priority = c.reward + e.estimate(c)
		emit(c)
	}
}

// search runs best-first from seed until the seed's subtree is proven not to
// beat the incumbent, a terminal state is popped, or a limit trips.
func (e *engine) search(ctx context.Context, seed *state) error {
	var (
		q    stateQueue
		seq  uint64
		pops int
		s    *state
	)
	push := func(c *state) {
		c.seq = seq
		seq++
		heap.Push(&q, c)
	}
	push(seed)

	for q.Len() > 0 {
		s = heap.Pop(&q).(*state)

		// Nothing left in this queue can beat the incumbent.
		if s.priority <= e.best.load() {
			return nil
		}
		e.best.offer(s.reward, s.trail)
		if e.terminal(s) {
			return nil
		}

		pops++
		if pops&checkMask == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("schedule: search interrupted: %w", err)
			}
			if e.useDL && time.Now().After(e.dl) {
				return fmt.Errorf("%w: time limit exceeded", ErrLimitReached)
			}
		}
		if n := e.expanded.Add(1); e.maxExp > 0 && n > e.maxExp {
			return fmt.Errorf("%w: %d expansions", ErrLimitReached, e.maxExp)
		}

		e.expand(s, push)
	}

	return nil
}

// plans rebuilds per-actor opening sequences from the incumbent trail.
func (e *engine) plans() [][]Step {
	out := make([][]Step, e.actors)
	var tr *step
	for tr = e.best.trail; tr != nil; tr = tr.prev {
		out[tr.actor] = append(out[tr.actor], Step{
			Valve:     e.net.ID(tr.node),
			Remaining: tr.ticks,
			Released:  tr.reward,
		})
	}
	var i, l, r int
	for i = range out {
		for l, r = 0, len(out[i])-1; l < r; l, r = l+1, r-1 {
			out[i][l], out[i][r] = out[i][r], out[i][l]
		}
	}

	return out
}
