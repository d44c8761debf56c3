// Package bound computes admissible upper bounds on the reward still obtainable.
//
// The relaxation ignores real travel distance: every further opened valve is
// assumed to cost exactly 2 ticks (one move, one open). Real moves between
// distinct valves cost at least that much, so the relaxed schedule can only
// open valves earlier than reality and the bound never falls below the true
// optimum. Bounds only prune; they never produce a final answer.
//
// Single actor:
//   - Walk remaining rates largest first; ticks -= 2 per valve; stop once
//     ticks ≤ 0; add rate × ticks.
//
// Two actors:
//   - Same rate order. The actor with more ticks left (A on ties) takes the
//     next rate. Stop once both have ≤ 2 ticks.
//   - This merges the slot sequences a-2, a-4, … and b-2, b-4, … in
//     descending order, i.e. the largest rates meet the largest slots. That is
//     the optimum of the relaxed model, so it is admissible; it is not claimed
//     tight for the real distances.
//
// Complexity: O(|remaining|) per call, no allocations. Rates are read in
// descending order straight off the Set bits (see network.Set).
package bound

import "github.com/katalvlaran/valveplan/network"

// StepCost is the relaxed cost, in ticks, of moving to and opening one valve.
const StepCost = 2

// Estimator caches the valuable rates of a network. It is immutable and safe
// for concurrent use.
type Estimator struct {
	rates []int // valuable index -> rate, non-increasing
}

// New captures the rates of net's valuable nodes.
func New(net *network.Network) *Estimator {
	e := &Estimator{rates: make([]int, net.NumValuable())}
	var k int
	for k = range e.rates {
		e.rates[k] = net.ValuableRate(k)
	}

	return e
}

// Single bounds the reward one actor with ticks left can still add by opening
// members of remaining.
func (e *Estimator) Single(remaining network.Set, ticks int) int {
	var (
		total int
		k     int
		ok    bool
	)
	for {
		if k, remaining, ok = remaining.Next(); !ok {
			return total
		}
		ticks -= StepCost
		if ticks <= 0 {
			return total
		}
		total += e.rates[k] * ticks
	}
}

// Dual bounds the reward two actors with a and b ticks left can still add.
func (e *Estimator) Dual(remaining network.Set, a, b int) int {
	var (
		total int
		k     int
		ok    bool
	)
	for {
		if a <= StepCost && b <= StepCost {
			return total
		}
		if k, remaining, ok = remaining.Next(); !ok {
			return total
		}
		if a >= b {
			a -= StepCost
			total += e.rates[k] * a
		} else {
			b -= StepCost
			total += e.rates[k] * b
		}
	}
}
