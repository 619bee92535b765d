package engine

import (
	"context"
	"math"
	"time"

	"github.com/hailam/mctschess/internal/board"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Search constants
const (
	// MaxDescentPlies bounds a selection walk. Transpositions can form cycles
	// because repetitions are not tracked; a walk that hits the cap is backed
	// up as a draw.
	MaxDescentPlies = 192

	unvisitedNoise = 1e-3 // tie-break jitter for children without visits
)

// Limits bounds one search.
type Limits struct {
	Simulations int           // minimum number of simulations
	CPuct       float64       // exploration weight
	TimeBudget  time.Duration // keep simulating until this elapses (0 = off)
}

// MoveStat is the search statistic of one root move.
type MoveStat struct {
	Move   board.Move
	Visits uint32
	Mean   float64 // from the side to move at the root
}

// Result describes a finished search.
type Result struct {
	Move        board.Move
	Simulations int
	RootVisits  uint32
	Elapsed     time.Duration
	Children    []MoveStat // in generation order
}

// frame is one step of a selection walk: the node left and the child taken.
type frame struct {
	hash  uint64
	node  *Node
	child int
	white bool // white to move at the node
}

// Search runs simulations from root until the simulation count is reached
// and the time budget, if any, has passed, or ctx is done. Deadline and
// cancellation are checked between simulations only.
func (m *MCTS) Search(ctx context.Context, root *board.Position, limits Limits) Result {
	start := time.Now()
	var deadline time.Time
	if limits.TimeBudget > 0 {
		deadline = start.Add(limits.TimeBudget)
	}

	sims := 0
	for i := 0; i < limits.Simulations || (!deadline.IsZero() && time.Now().Before(deadline)); i++ {
		if ctx.Err() != nil {
			break
		}
		pos := *root
		m.simulate(&pos, limits.CPuct)
		sims++
	}

	res := m.result(root)
	res.Simulations = sims
	res.Elapsed = time.Since(start)

	log.Debug().
		Int("simulations", sims).
		Int("tree-size", len(m.table)).
		Uint32("root-visits", res.RootVisits).
		Str("best", res.Move.String()).
		Dur("elapsed", res.Elapsed).
		Msg("search-finished")

	return res
}

// result picks the most visited root move. Without a root node it falls back
// to a random legal move, or NoMove when there is none.
func (m *MCTS) result(root *board.Position) Result {
	node, ok := m.table[root.Hash]
	if !ok || node.Terminal() {
		legal := root.GenerateLegalMoves()
		if len(legal) == 0 {
			return Result{Move: board.NoMove}
		}
		return Result{Move: legal[m.rng.Intn(len(legal))]}
	}

	return Result{
		Move:       node.Moves[node.MostVisited()],
		RootVisits: node.Visits,
		Children: lo.Map(node.Moves, func(mv board.Move, i int) MoveStat {
			return MoveStat{Move: mv, Visits: node.ChildVisits[i], Mean: node.Mean(i)}
		}),
	}
}

// simulate runs one selection, expansion, rollout and backup on pos.
func (m *MCTS) simulate(pos *board.Position, cPuct float64) {
	path := m.path[:0]
	defer func() { m.path = path[:0] }()

	for {
		if len(path) >= MaxDescentPlies {
			m.backup(path, 0)
			return
		}

		node, ok := m.table[pos.Hash]
		if !ok {
			m.expand(pos)
			m.backup(path, m.rollout.Play(pos, m.rng))
			return
		}

		if node.Terminal() {
			m.backup(path, pos.EvaluateTerminal().Reward)
			return
		}

		i := m.selectChild(node, cPuct)
		path = append(path, frame{hash: pos.Hash, node: node, child: i, white: pos.WhiteToMove()})
		pos.MakeMove(node.Moves[i])
	}
}

// expand adds a node for pos. A position drawn by the fifty-move rule gets
// no moves so later walks end there. Only aggregate statistics are seeded
// from the Q-table.
func (m *MCTS) expand(pos *board.Position) *Node {
	var moves []board.Move
	if pos.HalfMoveClock < board.FiftyMoveLimit {
		moves = pos.GenerateLegalMoves()
	}

	node := newNode(moves)
	if m.persistentQ {
		if q, ok := m.qtable[pos.Hash]; ok {
			node.Visits = q.Visits
			node.ValueSum = q.ValueSum
		}
	}
	m.table[pos.Hash] = node
	return node
}

// selectChild returns the child maximizing
//
//	mean + cPuct * sqrt(max(1, N)) / (1 + n)
//
// with a small random bonus for unvisited children.
func (m *MCTS) selectChild(node *Node, cPuct float64) int {
	explore := cPuct * math.Sqrt(float64(max(1, node.Visits)))

	best, bestScore := 0, math.Inf(-1)
	for i := range node.Moves {
		n := node.ChildVisits[i]
		score := node.ChildValues[i]/float64(max(1, n)) + explore/float64(1+n)
		if n == 0 {
			score += unvisitedNoise * m.rng.Float64()
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// backup propagates a white-relative reward along path, deepest frame first.
// The reward is turned to the view of the side that moved at the deepest
// frame and negated at every step up.
func (m *MCTS) backup(path []frame, reward float64) {
	if len(path) == 0 {
		return
	}

	v := reward
	if !path[len(path)-1].white {
		v = -v
	}

	for i := len(path) - 1; i >= 0; i-- {
		f := path[i]
		f.node.Visits++
		f.node.ValueSum += v
		f.node.ChildVisits[f.child]++
		f.node.ChildValues[f.child] += v

		if m.persistentQ {
			q := m.qtable[f.hash]
			q.ValueSum += v
			q.Visits++
			m.qtable[f.hash] = q
		}

		v = -v
	}
}
