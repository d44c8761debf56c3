package network

import (
	"fmt"
	"sort"
)

// New validates nodes and builds a Network.
//
// Implementation:
//   - Stage 1: assign dense indices in input order; reject empty, duplicate
//     and negative-rate nodes.
//   - Stage 2: resolve tunnels to indices in both directions, dropping
//     self-loops and duplicates. An unknown target is fatal.
//   - Stage 3: order positive-rate nodes by rate desc, ID asc.
//
// Errors: ErrEmptyNodeID, ErrDuplicateNode, ErrNegativeRate,
// ErrGraphInconsistency, ErrTooManyValuable (all wrapped with the node ID).
//
// Complexity: O(V + E + k log k).
func New(nodes []Node) (*Network, error) {
	n := len(nodes)
	net := &Network{
		ids:       make([]string, n),
		rates:     make([]int, n),
		adjacency: make([][]int, n),
		index:     make(map[string]int, n),
		slot:      make([]int, n),
	}

	// Stage 1: identity and rates.
	var (
		i  int
		nd Node
	)
	for i, nd = range nodes {
		if nd.ID == "" {
			return nil, fmt.Errorf("%w: node #%d", ErrEmptyNodeID, i)
		}
		if _, dup := net.index[nd.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, nd.ID)
		}
		if nd.Rate < 0 {
			return nil, fmt.Errorf("%w: %q has rate %d", ErrNegativeRate, nd.ID, nd.Rate)
		}
		net.index[nd.ID] = i
		net.ids[i] = nd.ID
		net.rates[i] = nd.Rate
	}

	// Stage 2: undirected adjacency.
	seen := make([]map[int]struct{}, n)
	for i = range seen {
		seen[i] = make(map[int]struct{})
	}
	var (
		to   string
		j    int
		ok   bool
		u, v int
	)
	for i, nd = range nodes {
		for _, to = range nd.Tunnels {
			if j, ok = net.index[to]; !ok {
				return nil, fmt.Errorf("%w: %q -> %q", ErrGraphInconsistency, nd.ID, to)
			}
			if j == i {
				continue
			}
			for _, u = range [2]int{i, j} {
				v = i + j - u
				if _, ok = seen[u][v]; ok {
					continue
				}
				seen[u][v] = struct{}{}
				net.adjacency[u] = append(net.adjacency[u], v)
			}
		}
	}
	for i = range net.adjacency {
		sort.Ints(net.adjacency[i])
	}

	// Stage 3: valuable ordering.
	for i = range net.rates {
		net.slot[i] = -1
		if net.rates[i] > 0 {
			net.valuable = append(net.valuable, i)
		}
	}
	if len(net.valuable) > MaxValuable {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyValuable, len(net.valuable), MaxValuable)
	}
	sort.SliceStable(net.valuable, func(a, b int) bool {
		ra, rb := net.rates[net.valuable[a]], net.rates[net.valuable[b]]
		if ra != rb {
			return ra > rb
		}

		return net.ids[net.valuable[a]] < net.ids[net.valuable[b]]
	})
	var k int
	for k, i = range net.valuable {
		net.slot[i] = k
	}

	return net, nil
}

// MustNew is New that panics on error. Intended for fixtures and examples.
func MustNew(nodes []Node) *Network {
	net, err := New(nodes)
	if err != nil {
		panic(err)
	}

	return net
}
