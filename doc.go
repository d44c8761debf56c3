// Package valveplan plans which valves to open, and in what order, so that one
// or two actors release the most flow from a tunnel network before their
// time runs out.
//
// What is inside:
//
//	network/  — validated, index-based valve graph and the 64-bit valve Set
//	distance/ — all-pairs shortest hop counts (Floyd–Warshall), built once
//	bound/    — admissible upper bounds used to prune the search
//	schedule/ — best-first branch-and-bound for one actor or two
//	scenario/ — YAML scenario files and a batch runner
//
// Reward model: moving one tunnel and opening a valve each cost one tick; a
// valve opened with t ticks left releases rate × t. The answer is the largest
// total release.
//
// Quick ASCII example:
//
//	AA(0)───BB(13)
//	  │        │
//	DD(20)───CC(2)
//
// Starting at AA with 6 ticks, one actor opens DD (4 left, +80), walks two
// tunnels to BB and opens it with 1 tick left (+13). No order beats 93.
//
//	go get github.com/katalvlaran/valveplan
package valveplan
