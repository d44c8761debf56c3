// Package fixture provides shared test graphs: the ten-valve tunnel layout
// and seeded random networks for exhaustive cross-checks.
package fixture

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/valveplan/network"
)

// Start is the start location of every fixture graph.
const Start = "AA"

// Tunnels returns the ten-valve example layout.
// Best single-actor reward in 30 ticks is 1651; two actors in 26 ticks reach 1707.
func Tunnels() []network.Node {
	return []network.Node{
		{ID: "AA", Rate: 0, Tunnels: []string{"DD", "II", "BB"}},
		{ID: "BB", Rate: 13, Tunnels: []string{"CC", "AA"}},
		{ID: "CC", Rate: 2, Tunnels: []string{"DD", "BB"}},
		{ID: "DD", Rate: 20, Tunnels: []string{"CC", "AA", "EE"}},
		{ID: "EE", Rate: 3, Tunnels: []string{"FF", "DD"}},
		{ID: "FF", Rate: 0, Tunnels: []string{"EE", "GG"}},
		{ID: "GG", Rate: 0, Tunnels: []string{"FF", "HH"}},
		{ID: "HH", Rate: 22, Tunnels: []string{"GG"}},
		{ID: "II", Rate: 0, Tunnels: []string{"AA", "JJ"}},
		{ID: "JJ", Rate: 21, Tunnels: []string{"II"}},
	}
}

// Random builds a seeded graph of n nodes named AA, AB, ...
// Each node gets rate 0 with probability 1/3, otherwise 1..25, and about
// density*n one-way tunnels to random peers. AA always has rate 0.
// Components may be disconnected.
func Random(seed int64, n int, density float64) []network.Node {
	rng := rand.New(rand.NewSource(seed))
	nodes := make([]network.Node, n)
	var i, j, edges int
	for i = 0; i < n; i++ {
		nodes[i].ID = name(i)
		if i > 0 && rng.Intn(3) != 0 {
			nodes[i].Rate = 1 + rng.Intn(25)
		}
	}
	edges = int(density * float64(n))
	for i = 0; i < edges; i++ {
		a, b := rng.Intn(n), rng.Intn(n)
		if a == b {
			continue
		}
		nodes[a].Tunnels = append(nodes[a].Tunnels, nodes[b].ID)
	}
	// Keep a spanning path most of the time so searches are not trivial.
	for j = 1; j < n; j++ {
		if rng.Intn(5) != 0 {
			nodes[j].Tunnels = append(nodes[j].Tunnels, nodes[rng.Intn(j)].ID)
		}
	}

	return nodes
}

func name(i int) string {
	return fmt.Sprintf("%c%c", 'A'+i/26, 'A'+i%26)
}
