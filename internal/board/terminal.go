package board

// FiftyMoveLimit is the half-move clock value at which the game is drawn.
const FiftyMoveLimit = 100

// GameResult is a game outcome with the reward from white's perspective
// (+1 white wins, -1 black wins, 0 draw).
type GameResult struct {
	Reward   float64
	Terminal bool
}

// EvaluateTerminal reports whether the game has ended and, if so, its reward.
// Checkmate takes precedence over the fifty-move rule.
func (p *Position) EvaluateTerminal() GameResult {
	if p.HasLegalMoves() {
		if p.HalfMoveClock >= FiftyMoveLimit {
			return GameResult{Terminal: true}
		}
		return GameResult{}
	}
	return p.noMovesResult()
}

// noMovesResult scores a position without legal moves: checkmate or stalemate.
func (p *Position) noMovesResult() GameResult {
	if p.Checked() {
		if p.SideToMove == White {
			return GameResult{Reward: -1, Terminal: true}
		}
		return GameResult{Reward: 1, Terminal: true}
	}
	return GameResult{Terminal: true}
}

// TerminalWithMoves is EvaluateTerminal for callers that already hold the
// legal move list of the position.
func (p *Position) TerminalWithMoves(legal []Move) GameResult {
	if len(legal) == 0 {
		return p.noMovesResult()
	}
	if p.HalfMoveClock >= FiftyMoveLimit {
		return GameResult{Terminal: true}
	}
	return GameResult{}
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.Checked() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.Checked() && !p.HasLegalMoves()
}
