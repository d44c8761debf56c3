package network

import "errors"

// Sentinel errors for network construction.
var (
	// ErrEmptyNodeID indicates that a Node has an empty ID.
	ErrEmptyNodeID = errors.New("network: node ID is empty")

	// ErrDuplicateNode indicates that two nodes were declared with the same ID.
	ErrDuplicateNode = errors.New("network: duplicate node ID")

	// ErrNegativeRate indicates a node with a flow rate below zero.
	ErrNegativeRate = errors.New("network: negative flow rate")

	// ErrGraphInconsistency indicates a tunnel that references an unknown node.
	ErrGraphInconsistency = errors.New("network: tunnel references unknown node")

	// ErrTooManyValuable indicates that the valuable nodes do not fit in a Set.
	ErrTooManyValuable = errors.New("network: too many nodes with positive flow rate")
)

// MaxValuable is the largest number of positive-rate nodes a Network accepts.
const MaxValuable = 64

// Node is one location of the input graph as delivered by a parser.
type Node struct {
	// ID uniquely identifies the node (e.g. "AA").
	ID string

	// Rate is the reward accrued per remaining tick once the node is opened.
	Rate int

	// Tunnels lists adjacent node IDs. Direction is ignored.
	Tunnels []string
}

// Network is the immutable, index-based form of a []Node.
//
// Indices 0..Len()-1 follow input order. Valuable indices 0..NumValuable()-1
// follow descending rate, ties broken by ascending ID.
type Network struct {
	ids       []string
	rates     []int
	adjacency [][]int
	index     map[string]int

	valuable []int // valuable index -> node index
	slot     []int // node index -> valuable index, -1 if rate == 0
}

// Len returns the number of nodes.
func (n *Network) Len() int { return len(n.ids) }

// ID returns the identifier of node i.
func (n *Network) ID(i int) string { return n.ids[i] }

// Rate returns the flow rate of node i.
func (n *Network) Rate(i int) int { return n.rates[i] }

// Neighbors returns the adjacent node indices of i in ascending order.
// The slice is shared; callers must not modify it.
func (n *Network) Neighbors(i int) []int { return n.adjacency[i] }

// Index resolves a node identifier to its dense index.
func (n *Network) Index(id string) (int, bool) {
	i, ok := n.index[id]

	return i, ok
}

// NumValuable returns the number of nodes with a positive flow rate.
func (n *Network) NumValuable() int { return len(n.valuable) }

// Valve maps a valuable index to its node index.
func (n *Network) Valve(k int) int { return n.valuable[k] }

// ValuableRate returns the rate of the k-th valuable node.
// Rates are non-increasing in k.
func (n *Network) ValuableRate(k int) int { return n.rates[n.valuable[k]] }

// Slot maps a node index to its valuable index; ok is false for zero-rate nodes.
func (n *Network) Slot(i int) (k int, ok bool) {
	k = n.slot[i]

	return k, k >= 0
}

// Valuable returns the Set of every positive-rate node.
func (n *Network) Valuable() Set { return Full(len(n.valuable)) }
