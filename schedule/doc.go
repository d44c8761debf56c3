// Package schedule finds the largest total flow one or two actors can release
// from a valve network within a tick budget.
//
// Model:
//
//   - Moving along a tunnel costs 1 tick; opening a valve costs 1 tick.
//   - A valve opened with t ticks left releases rate × t.
//   - Only positive-rate valves are ever targeted; moves are precomputed as
//     shortest hop counts (see package distance).
//
// Search:
//
//	SingleActor and DualActor run a best-first branch-and-bound search. A
//	max-heap is ordered by reward-so-far + an admissible bound (package bound).
//	Every popped state raises the best-so-far; the first popped state that
//	cannot act any more (no valves left, or ≤ 2 ticks for every actor) proves
//	the best-so-far optimal because nothing left in the heap can beat it.
//
//	With two actors the actor holding strictly more ticks always moves next
//	(actor A on ties), which avoids exploring both interleavings of the same
//	pair of plans. The moving actor may also retire, handing the remaining
//	valves to the other actor.
//
// Options (functional):
//
//	WithStart(id)          start location for every actor (default "AA").
//	WithBudget(ticks)      per-actor budget (default 30 single, 26 dual).
//	WithMaxExpansions(n)   stop after n expansions; result is partial.
//	WithTimeLimit(d)       stop after d wall-clock time; result is partial.
//	WithWorkers(n)         shard the root's children over n goroutines.
//	WithPlan()             reconstruct the opening order of each actor.
//	WithLogger(l)          slog logger for search diagnostics.
//
// Errors (sentinel):
//
//	ErrNilNetwork, ErrDistanceMismatch, ErrUnknownStart, ErrActorCount,
//	ErrNegativeBudget, ErrBadLimit, ErrBadWorkers - invalid input, nothing ran.
//	ErrLimitReached - a cap stopped the search; Result.Partial is set and
//	Result.Reward holds the best reward found so far.
//
// An empty valuable set or a budget ≤ 2 is not an error: the reward is 0.
//
// Complexity: exponential in the number of valuable valves in the worst case;
// pruning keeps practical instances (≤ ~20 valuable valves) fast. Each
// expansion is O(k) with O(k) bound evaluations of O(k) each.
package schedule
