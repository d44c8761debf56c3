// SPDX-License-Identifier: MIT
// Package: distance
//
// Purpose:
//   - All-pairs shortest hop counts over a network.Network (Floyd–Warshall).
//   - Built once, read-only afterwards; safe for concurrent readers.
//
// Contract:
//   - Every tunnel costs 1 in both directions; the diagonal is 0.
//   - Unreachable pairs hold Unreachable. Unreachable + Unreachable does not overflow.

package distance

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/valveplan/network"
)

// Unreachable marks pairs with no connecting path. It is half of math.MaxInt
// so that the sum of two entries always fits in an int.
const Unreachable = math.MaxInt / 2

// ErrUnknownNode is returned by Between for an identifier absent from the network.
var ErrUnknownNode = errors.New("distance: unknown node")

// Matrix is a dense n×n table of hop counts in row-major order.
type Matrix struct {
	n    int
	data []int
}

// Build computes the matrix for net.
//
// Implementation:
//   - Stage 1: 0 on the diagonal, 1 for each adjacent pair, Unreachable elsewhere.
//   - Stage 2: relax in fixed k → i → j order, skipping Unreachable legs.
//
// Complexity: Time O(n³), Space O(n²).
func Build(net *network.Network) *Matrix {
	n := net.Len()
	m := &Matrix{n: n, data: make([]int, n*n)}

	// Stage 1: seed.
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i != j {
				m.data[i*n+j] = Unreachable
			}
		}
		for _, j = range net.Neighbors(i) {
			m.data[i*n+j] = 1
			m.data[j*n+i] = 1
		}
	}

	// Stage 2: closure.
	floydWarshallInPlace(m.data, n)

	return m
}

// floydWarshallInPlace runs the APSP closure on a flat n×n buffer.
// Loop order is fixed (k → i → j); only strict improvements are written.
func floydWarshallInPlace(data []int, n int) {
	var (
		k, i, j      int
		baseK, baseI int
		ik, kj, cand int
	)
	for k = 0; k < n; k++ {
		baseK = k * n
		for i = 0; i < n; i++ {
			ik = data[i*n+k]
			if ik >= Unreachable {
				continue
			}
			baseI = i * n
			for j = 0; j < n; j++ {
				kj = data[baseK+j]
				if kj >= Unreachable {
					continue
				}
				cand = ik + kj
				if cand < data[baseI+j] {
					data[baseI+j] = cand
				}
			}
		}
	}
}

// FromNodes validates nodes, builds the Network and its Matrix in one step.
// A tunnel naming an unknown node yields an error wrapping
// network.ErrGraphInconsistency and no matrix.
func FromNodes(nodes []network.Node) (*network.Network, *Matrix, error) {
	net, err := network.New(nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("distance: %w", err)
	}

	return net, Build(net), nil
}

// Len returns the matrix order (number of nodes).
func (m *Matrix) Len() int { return m.n }

// At returns the hop count from u to v, or Unreachable.
func (m *Matrix) At(u, v int) int { return m.data[u*m.n+v] }

// Reachable reports whether a path from u to v exists.
func (m *Matrix) Reachable(u, v int) bool { return m.data[u*m.n+v] < Unreachable }

// Between looks up the hop count by node identifiers.
func (m *Matrix) Between(net *network.Network, from, to string) (int, error) {
	u, ok := net.Index(from)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	v, ok := net.Index(to)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}

	return m.At(u, v), nil
}
