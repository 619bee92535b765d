package board

import (
	"testing"

	"lukechampine.com/frand"
)

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}
	return pos
}

func mustMove(t *testing.T, pos *Position, s string) Move {
	t.Helper()
	m, err := ParseMove(s, pos)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func TestMakeUnmakeOpeningMoves(t *testing.T) {
	pos := NewPosition()
	before := *pos

	moves := pos.GenerateLegalMoves()
	if len(moves) != 20 {
		t.Fatalf("start position has %d moves, want 20", len(moves))
	}

	for _, m := range moves {
		undo := pos.MakeMove(m)
		if pos.Hash == before.Hash {
			t.Errorf("%v: hash unchanged after make", m)
		}
		if pos.Hash != pos.ComputeHash() {
			t.Errorf("%v: incremental hash %016x != recomputed %016x", m, pos.Hash, pos.ComputeHash())
		}
		pos.UnmakeMove(m, undo)
		if *pos != before {
			t.Errorf("%v: position differs after unmake", m)
		}
	}
}

// TestRandomWalkInvariants plays random games and checks, at every ply, that
// the incremental hash matches a full recompute, that make/unmake round-trips
// every legal move, that castling rights never grow, and that the en passant
// square and half-move clock follow the last move.
func TestRandomWalkInvariants(t *testing.T) {
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)

	starts := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
	}

	for _, fen := range starts {
		for game := 0; game < 8; game++ {
			pos := mustFEN(t, fen)
			for ply := 0; ply < 120; ply++ {
				moves := pos.GenerateLegalMoves()
				if len(moves) == 0 {
					break
				}

				before := *pos
				for _, m := range moves {
					undo := pos.MakeMove(m)
					if pos.Hash != pos.ComputeHash() {
						t.Fatalf("%s: hash drift after %v", before.ToFEN(), m)
					}
					pos.UnmakeMove(m, undo)
					if *pos != before {
						t.Fatalf("%s: make/unmake of %v is not an identity", before.ToFEN(), m)
					}
				}

				m := moves[rng.Intn(len(moves))]
				moving := pos.Squares[m.From]
				capture := m.IsCapture(pos)
				pos.MakeMove(m)

				if pos.CastlingRights&^before.CastlingRights != 0 {
					t.Fatalf("%v gained castling rights: %s -> %s", m, before.CastlingRights, pos.CastlingRights)
				}

				double := moving.Type() == Pawn && (m.To-m.From == 16 || m.From-m.To == 16)
				if double != (pos.EnPassant != NoSquare) {
					t.Fatalf("%v: en passant square %v after double=%v", m, pos.EnPassant, double)
				}

				reset := moving.Type() == Pawn || capture
				if reset != (pos.HalfMoveClock == 0) {
					t.Fatalf("%v: half-move clock %d (pawn move or capture: %v)", m, pos.HalfMoveClock, reset)
				}
			}
		}
	}
}

func TestEnPassantScenario(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e2e4", "a7a6", "e4e5", "d7d5"} {
		pos.MakeMove(mustMove(t, pos, s))
	}

	if pos.EnPassant != D6 {
		t.Fatalf("en passant square = %v, want d6", pos.EnPassant)
	}

	var ep Move
	for _, m := range pos.GenerateLegalMoves() {
		if m.IsEnPassant() {
			ep = m
		}
	}
	if ep.From != E5 || ep.To != D6 {
		t.Fatalf("en passant move = %v, want e5d6 with en passant flag", ep)
	}

	before := *pos
	undo := pos.MakeMove(ep)
	if pos.Squares[D5] != NoPiece {
		t.Error("captured pawn on d5 was not removed")
	}
	if pos.Squares[D6] != WhitePawn {
		t.Error("white pawn did not land on d6")
	}
	if undo.Captured != BlackPawn {
		t.Errorf("undo captured = %v, want black pawn", undo.Captured)
	}
	if pos.HalfMoveClock != 0 {
		t.Errorf("half-move clock = %d after capture", pos.HalfMoveClock)
	}

	pos.UnmakeMove(ep, undo)
	if *pos != before {
		t.Error("unmake of en passant did not restore the position")
	}
}

func TestEnPassantExpires(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e2e4", "a7a6", "e4e5", "d7d5", "g1f3", "h7h6"} {
		pos.MakeMove(mustMove(t, pos, s))
	}

	for _, m := range pos.GenerateLegalMoves() {
		if m.IsEnPassant() {
			t.Errorf("en passant %v offered after an intervening move", m)
		}
	}
}

func TestCastlingRightsOnRookCapture(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	pos.MakeMove(mustMove(t, pos, "a1a8"))

	want := WhiteKingSideCastle | BlackKingSideCastle
	if pos.CastlingRights != want {
		t.Errorf("castling rights = %s, want %s", pos.CastlingRights, want)
	}
	if pos.Hash != pos.ComputeHash() {
		t.Error("hash drift after rook capture")
	}
}

func TestCastlingRightsOnKingMove(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	pos.MakeMove(mustMove(t, pos, "e1f1"))

	if pos.CastlingRights != BlackKingSideCastle|BlackQueenSideCastle {
		t.Errorf("castling rights = %s, want kq", pos.CastlingRights)
	}
}

func TestCastlingMovesRook(t *testing.T) {
	tests := []struct {
		fen      string
		move     string
		rookFrom Square
		rookTo   Square
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", H1, F1},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", A1, D1},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", H8, F8},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", A8, D8},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			before := *pos
			m := mustMove(t, pos, tc.move)
			if !m.IsCastling() {
				t.Fatalf("%s is not flagged as castling", tc.move)
			}

			undo := pos.MakeMove(m)
			if pos.Squares[tc.rookFrom] != NoPiece || pos.Squares[tc.rookTo].Type() != Rook {
				t.Errorf("rook not relocated %v -> %v", tc.rookFrom, tc.rookTo)
			}
			if pos.CastlingRights&castleMask(before.SideToMove) != 0 {
				t.Errorf("mover kept castling rights: %s", pos.CastlingRights)
			}
			if pos.Hash != pos.ComputeHash() {
				t.Error("hash drift after castling")
			}

			pos.UnmakeMove(m, undo)
			if *pos != before {
				t.Error("unmake of castling did not restore the position")
			}
		})
	}
}

func TestPromotionRoundTrip(t *testing.T) {
	pos := mustFEN(t, "1n5k/P7/8/8/8/8/8/K7 w - - 3 40")
	before := *pos

	for _, s := range []string{"a7a8q", "a7a8n", "a7b8r", "a7b8b"} {
		m := mustMove(t, pos, s)
		undo := pos.MakeMove(m)
		if pos.Squares[m.To] != m.Promotion {
			t.Errorf("%s: %v on %v, want %v", s, pos.Squares[m.To], m.To, m.Promotion)
		}
		if pos.Hash != pos.ComputeHash() {
			t.Errorf("%s: hash drift", s)
		}
		if pos.HalfMoveClock != 0 {
			t.Errorf("%s: half-move clock not reset", s)
		}
		pos.UnmakeMove(m, undo)
		if *pos != before {
			t.Errorf("%s: unmake did not restore the position", s)
		}
	}
}

func TestMoveCounters(t *testing.T) {
	pos := NewPosition()

	pos.MakeMove(mustMove(t, pos, "g1f3"))
	if pos.HalfMoveClock != 1 || pos.FullMoveNumber != 1 {
		t.Errorf("after g1f3: clocks %d/%d, want 1/1", pos.HalfMoveClock, pos.FullMoveNumber)
	}

	undo := pos.MakeMove(mustMove(t, pos, "g8f6"))
	if pos.HalfMoveClock != 2 || pos.FullMoveNumber != 2 {
		t.Errorf("after g8f6: clocks %d/%d, want 2/2", pos.HalfMoveClock, pos.FullMoveNumber)
	}

	pos.UnmakeMove(NewMove(G8, F6), undo)
	if pos.FullMoveNumber != 1 || pos.SideToMove != Black {
		t.Errorf("after unmake: full move %d side %v, want 1 Black", pos.FullMoveNumber, pos.SideToMove)
	}
}
