package schedule

import "github.com/katalvlaran/valveplan/network"

// actor is one mover: where it stands and how many ticks it has left.
type actor struct {
	loc   int // node index
	ticks int
}

// step is a persistent, parent-linked record of one opening. Children share
// their parent's chain, so recording a plan costs one allocation per state.
type step struct {
	prev   *step
	actor  int
	node   int
	ticks  int
	reward int
}

// state is a partial schedule. Single-actor searches only use actors[0].
type state struct {
	actors    [2]actor
	reward    int
	remaining network.Set
	priority  int    // reward + bound
	seq       uint64 // push order, breaks priority ties
	trail     *step
}

// stateQueue is a max-heap of *state ordered by priority, then push order.
type stateQueue []*state

func (q stateQueue) Len() int { return len(q) }

func (q stateQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}

	return q[i].seq < q[j].seq
}

func (q stateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

// Push is called by heap.Push; x must be *state.
func (q *stateQueue) Push(x interface{}) { *q = append(*q, x.(*state)) }

// Pop is called by heap.Pop.
func (q *stateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return s
}
