package gamelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/mctschess/internal/board"
)

func play(t *testing.T, rec *Recorder, pos *board.Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := board.ParseMove(s, pos)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		if err := rec.Record(m); err != nil {
			t.Fatalf("Record(%s): %v", s, err)
		}
		pos.MakeMove(m)
	}
}

func TestRecordCheckmate(t *testing.T) {
	rec, err := NewRecorder(board.StartFEN, "mcts", "mcts", 1)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}

	play(t, rec, board.NewPosition(), "f2f3", "e7e5", "g2g4", "d8h4")
	rec.Finish(-1)

	if rec.Plies() != 4 {
		t.Errorf("Plies = %d, want 4", rec.Plies())
	}
	if rec.Result() != "0-1" {
		t.Errorf("Result = %q, want 0-1", rec.Result())
	}
	pgn := rec.PGN()
	for _, want := range []string{"Qh4#", `[White "mcts"]`, `[Round "1"]`} {
		if !strings.Contains(pgn, want) {
			t.Errorf("PGN missing %q:\n%s", want, pgn)
		}
	}
}

func TestRecordSpecialMoves(t *testing.T) {
	fen := "r3k2r/1P6/8/3pP3/8/8/8/R3K2R w KQkq d6 0 1"
	rec, err := NewRecorder(fen, "a", "b", 2)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	play(t, rec, pos, "e5d6", "e8g8", "b7b8n", "a8a1", "e1d2")
	rec.Finish(0)

	if rec.Result() != "1/2-1/2" {
		t.Errorf("Result = %q, want a draw", rec.Result())
	}
	pgn := rec.PGN()
	for _, want := range []string{"exd6", "O-O", "b8=N", "Rxa1+", `[FEN "` + fen + `"]`} {
		if !strings.Contains(pgn, want) {
			t.Errorf("PGN missing %q:\n%s", want, pgn)
		}
	}
}

func TestRecordIllegal(t *testing.T) {
	rec, err := NewRecorder(board.StartFEN, "a", "b", 1)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	if err := rec.Record(board.NewMove(board.E2, board.E5)); err == nil {
		t.Error("expected an error for an illegal move")
	}
}

func TestAppendPGN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games", "selfplay.pgn")

	for round := 1; round <= 2; round++ {
		rec, err := NewRecorder(board.StartFEN, "w", "b", round)
		if err != nil {
			t.Fatalf("NewRecorder failed: %v", err)
		}
		play(t, rec, board.NewPosition(), "e2e4", "e7e5")
		rec.Finish(0)
		if err := rec.AppendPGN(path); err != nil {
			t.Fatalf("AppendPGN failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if n := strings.Count(string(data), "[Event "); n != 2 {
		t.Errorf("file holds %d games, want 2", n)
	}
}
