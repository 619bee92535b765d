package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate - already checkmate
	// White: Ka1, Ra8
	// Black: Kh8, pawns on g7 and h7 blocking escape
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Checkmate position:")
	t.Log(pos)

	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}

	res := pos.EvaluateTerminal()
	if !res.Terminal || res.Reward != 1 {
		t.Errorf("EvaluateTerminal = %+v, want terminal with reward +1", res)
	}
}

func TestCheckmateWhiteToMove(t *testing.T) {
	// Fool's mate: white is mated.
	pos, err := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if len(pos.GenerateLegalMoves()) != 0 {
		t.Fatalf("expected no legal moves")
	}
	res := pos.EvaluateTerminal()
	if !res.Terminal || res.Reward != -1 {
		t.Errorf("EvaluateTerminal = %+v, want terminal with reward -1", res)
	}
}

func TestNotCheckmate(t *testing.T) {
	// King CAN escape - not checkmate
	// Black king on h8, rook on g8 but king can take it
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	if res := pos.EvaluateTerminal(); res.Terminal {
		t.Errorf("EvaluateTerminal = %+v, want non-terminal", res)
	}
}

func TestStalemate(t *testing.T) {
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.IsStalemate() {
		t.Error("Expected stalemate")
	}
	res := pos.EvaluateTerminal()
	if !res.Terminal || res.Reward != 0 {
		t.Errorf("EvaluateTerminal = %+v, want terminal draw", res)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		terminal bool
		reward   float64
	}{
		{"clock below limit", "4k3/8/8/8/8/8/8/4K2R w - - 99 80", false, 0},
		{"clock at limit", "4k3/8/8/8/8/8/8/4K2R w - - 100 80", true, 0},
		{"mate beats clock", "R6k/6pp/8/8/8/8/8/K7 b - - 120 90", true, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			res := pos.EvaluateTerminal()
			if res.Terminal != tc.terminal || res.Reward != tc.reward {
				t.Errorf("EvaluateTerminal = %+v, want terminal=%v reward=%v", res, tc.terminal, tc.reward)
			}
			if with := pos.TerminalWithMoves(pos.GenerateLegalMoves()); with != res {
				t.Errorf("TerminalWithMoves = %+v, want %+v", with, res)
			}
		})
	}
}

func TestMaterial(t *testing.T) {
	if got := NewPosition().Material(); got != 0 {
		t.Errorf("start position material = %d, want 0", got)
	}

	pos, err := ParseFEN("4k3/8/8/8/8/8/8/3QK2R w K - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	if got := pos.Material(); got != 1400 {
		t.Errorf("material = %d, want 1400", got)
	}
}
