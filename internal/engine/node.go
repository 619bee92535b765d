package engine

import "github.com/hailam/mctschess/internal/board"

// Node holds the search statistics of one position, keyed in the tree by its
// Zobrist hash. Positions reached through different move orders share a node,
// while child counters belong to the (node, move) pair.
type Node struct {
	Visits   uint32  // includes visits seeded from the Q-table
	ValueSum float64 // from the side to move at this position

	Moves       []board.Move
	ChildVisits []uint32
	ChildValues []float64 // from the side to move at this position
}

func newNode(moves []board.Move) *Node {
	return &Node{
		Moves:       moves,
		ChildVisits: make([]uint32, len(moves)),
		ChildValues: make([]float64, len(moves)),
	}
}

// Terminal reports whether the node was expanded without moves.
func (n *Node) Terminal() bool {
	return len(n.Moves) == 0
}

// Mean returns the average backed-up value of child i, 0 when unvisited.
func (n *Node) Mean(i int) float64 {
	if n.ChildVisits[i] == 0 {
		return 0
	}
	return n.ChildValues[i] / float64(n.ChildVisits[i])
}

// MostVisited returns the index of the child with the highest visit count,
// the first one on ties, or -1 for a node without moves.
func (n *Node) MostVisited() int {
	if len(n.Moves) == 0 {
		return -1
	}
	best := 0
	for i, v := range n.ChildVisits {
		if v > n.ChildVisits[best] {
			best = i
		}
	}
	return best
}
