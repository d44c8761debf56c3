// Package network holds the valve graph the schedulers search over.
//
// A Network is built once from a slice of Node values and is immutable
// afterwards. Node identifiers are mapped to dense integer indices in input
// order, adjacency is stored as index slices, and every declared tunnel is
// traversable in both directions.
//
// Valves with a positive flow rate are the only ones worth visiting. They are
// numbered separately (0..k-1) in descending rate order and addressed through
// Set, a 64-bit mask. Iterating a Set from the lowest bit therefore yields the
// remaining rates largest first, which is the order the bound estimator needs.
//
// Errors:
//
//	ErrEmptyNodeID         - a node has an empty identifier.
//	ErrDuplicateNode       - two nodes share an identifier.
//	ErrNegativeRate        - a node has a flow rate below zero.
//	ErrGraphInconsistency  - a tunnel names a node absent from the input.
//	ErrTooManyValuable     - more than 64 nodes carry a positive rate.
//
// Complexity:
//   - New: O(V + E) plus O(k log k) for ordering the valuable nodes.
//   - Set operations: O(1); iteration O(popcount).
package network
