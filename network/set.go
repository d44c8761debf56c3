package network

import "math/bits"

// Set is a bitmask over valuable indices. Bit k stands for Network.Valve(k).
// The zero value is the empty set. Sets are values: With and Without return
// a new Set and never modify the receiver.
type Set uint64

// Full returns the set {0, .., k-1}. k must be within [0, MaxValuable].
func Full(k int) Set {
	if k >= MaxValuable {
		return ^Set(0)
	}

	return Set(1)<<uint(k) - 1
}

// Has reports whether k is a member.
func (s Set) Has(k int) bool { return s&(1<<uint(k)) != 0 }

// With returns s ∪ {k}.
func (s Set) With(k int) Set { return s | 1<<uint(k) }

// Without returns s \ {k}.
func (s Set) Without(k int) Set { return s &^ (1 << uint(k)) }

// Len returns the number of members.
func (s Set) Len() int { return bits.OnesCount64(uint64(s)) }

// Empty reports whether s has no members.
func (s Set) Empty() bool { return s == 0 }

// Next returns the smallest member of s and s without it.
// ok is false when s is empty.
func (s Set) Next() (k int, rest Set, ok bool) {
	if s == 0 {
		return 0, 0, false
	}
	k = bits.TrailingZeros64(uint64(s))

	return k, s & (s - 1), true
}

// Members returns the members in ascending order.
func (s Set) Members() []int {
	out := make([]int, 0, s.Len())
	var (
		k  int
		ok bool
	)
	for {
		if k, s, ok = s.Next(); !ok {
			return out
		}
		out = append(out, k)
	}
}
