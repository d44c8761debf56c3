package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/valveplan/internal/fixture"
	"github.com/katalvlaran/valveplan/network"
)

func TestNew_Tunnels(t *testing.T) {
	net, err := network.New(fixture.Tunnels())
	require.NoError(t, err)

	assert.Equal(t, 10, net.Len())
	assert.Equal(t, 6, net.NumValuable())

	aa, ok := net.Index("AA")
	require.True(t, ok)
	assert.Equal(t, 0, aa)
	assert.Equal(t, "AA", net.ID(aa))

	// Rates come out largest first: HH, JJ, DD, BB, EE, CC.
	var got []string
	for k := 0; k < net.NumValuable(); k++ {
		got = append(got, net.ID(net.Valve(k)))
		if k > 0 {
			assert.GreaterOrEqual(t, net.ValuableRate(k-1), net.ValuableRate(k))
		}
	}
	assert.Equal(t, []string{"HH", "JJ", "DD", "BB", "EE", "CC"}, got)

	_, ok = net.Slot(aa)
	assert.False(t, ok, "zero-rate node has no slot")
	hh, _ := net.Index("HH")
	k, ok := net.Slot(hh)
	assert.True(t, ok)
	assert.Equal(t, 0, k)
}

func TestNew_OneWayTunnelsAreSymmetric(t *testing.T) {
	net, err := network.New([]network.Node{
		{ID: "A", Tunnels: []string{"B", "B", "A"}},
		{ID: "B"},
		{ID: "C", Tunnels: []string{"A"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, net.Neighbors(0))
	assert.Equal(t, []int{0}, net.Neighbors(1))
	assert.Equal(t, []int{0}, net.Neighbors(2))
}

func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name  string
		nodes []network.Node
		want  error
	}{
		{"empty id", []network.Node{{ID: ""}}, network.ErrEmptyNodeID},
		{"duplicate", []network.Node{{ID: "A"}, {ID: "A"}}, network.ErrDuplicateNode},
		{"negative rate", []network.Node{{ID: "A", Rate: -1}}, network.ErrNegativeRate},
		{"unknown tunnel", []network.Node{{ID: "A", Tunnels: []string{"ZZ"}}}, network.ErrGraphInconsistency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net, err := network.New(tc.nodes)
			assert.Nil(t, net)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_TooManyValuable(t *testing.T) {
	nodes := make([]network.Node, network.MaxValuable+1)
	for i := range nodes {
		nodes[i] = network.Node{ID: string(rune('a'+i/26)) + string(rune('a'+i%26)), Rate: 1}
	}
	_, err := network.New(nodes)
	assert.ErrorIs(t, err, network.ErrTooManyValuable)

	_, err = network.New(nodes[:network.MaxValuable])
	assert.NoError(t, err)
}

func TestNew_EmptyInput(t *testing.T) {
	net, err := network.New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, net.Len())
	assert.True(t, net.Valuable().Empty())
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { network.MustNew([]network.Node{{ID: ""}}) })
}
