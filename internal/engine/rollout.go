package engine

import (
	"math"

	"github.com/hailam/mctschess/internal/board"
	"lukechampine.com/frand"
)

// MaxRolloutPlies bounds a playout; reaching it scores the game as a draw.
const MaxRolloutPlies = 192

// Rollout plays a position out and returns the reward from white's view.
// It may modify pos.
type Rollout interface {
	Play(pos *board.Position, rng *frand.RNG) float64
}

// RolloutFunc adapts a plain function to the Rollout interface.
type RolloutFunc func(pos *board.Position, rng *frand.RNG) float64

// Play calls f(pos, rng).
func (f RolloutFunc) Play(pos *board.Position, rng *frand.RNG) float64 {
	return f(pos, rng)
}

// MaterialRollout picks, at every ply, the move that leaves the best material
// balance for the mover, with uniform noise of +/-Noise centipawns breaking
// ties.
type MaterialRollout struct {
	MaxPlies int
	Noise    float64
}

// DefaultRollout is the playout policy used unless WithRollout overrides it.
var DefaultRollout = MaterialRollout{MaxPlies: MaxRolloutPlies, Noise: 5}

// Play implements Rollout.
func (r MaterialRollout) Play(pos *board.Position, rng *frand.RNG) float64 {
	for ply := 0; ply < r.MaxPlies; ply++ {
		moves := pos.GenerateLegalMoves()
		if res := pos.TerminalWithMoves(moves); res.Terminal {
			return res.Reward
		}
		pos.MakeMove(moves[r.pick(pos, moves, rng)])
	}
	return 0
}

// pick scores every move one ply ahead and returns the index of the best.
func (r MaterialRollout) pick(pos *board.Position, moves []board.Move, rng *frand.RNG) int {
	best, bestScore := 0, math.Inf(-1)
	for i, m := range moves {
		score := r.score(pos, m) + (rng.Float64()-0.5)*2*r.Noise
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func (r MaterialRollout) score(pos *board.Position, m board.Move) float64 {
	undo := pos.MakeMove(m)
	defer pos.UnmakeMove(m, undo)

	eval := pos.Material()
	if pos.WhiteToMove() {
		// Black made the move.
		eval = -eval
	}
	return float64(eval)
}
