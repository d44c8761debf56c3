// Package distance precomputes shortest travel times between every pair of
// nodes of a network.Network.
//
// Travel time is the number of tunnels walked. The matrix is computed once
// with Floyd–Warshall (O(n³), fine for the few dozen nodes a valve network
// has) and never changes afterwards, so schedulers and concurrent workers read
// it without locking. Pairs with no path hold Unreachable, which callers treat
// as "too far" through plain arithmetic: subtracting it from any budget goes
// negative.
package distance
