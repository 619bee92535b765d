// Package gamelog records played games and exports them as PGN.
package gamelog

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hailam/mctschess/internal/board"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Recorder mirrors a game into a notnil/chess game so it can be written as
// PGN with standard algebraic notation.
type Recorder struct {
	game  *chess.Game
	plies int
}

// NewRecorder starts a game from fen (board.StartFEN for the usual start) and
// tags it with the given players and round.
func NewRecorder(fen, white, black string, round int) (*Recorder, error) {
	var opts []func(*chess.Game)
	if fen != board.StartFEN {
		opt, err := chess.FEN(fen)
		if err != nil {
			return nil, errors.Wrapf(err, "pgn start position %q", fen)
		}
		opts = append(opts, opt)
	}

	g := chess.NewGame(opts...)
	if len(opts) > 0 {
		g.AddTagPair("SetUp", "1")
		g.AddTagPair("FEN", fen)
	}
	g.AddTagPair("Event", "mctschess self-play")
	g.AddTagPair("Date", time.Now().Format("2006.01.02"))
	g.AddTagPair("Round", strconv.Itoa(round))
	g.AddTagPair("White", white)
	g.AddTagPair("Black", black)

	return &Recorder{game: g}, nil
}

// Record appends a move given in coordinate notation.
func (r *Recorder) Record(m board.Move) error {
	s := m.String()
	for _, vm := range r.game.ValidMoves() {
		if vm.String() == s {
			r.plies++
			return errors.Wrapf(r.game.Move(vm), "pgn move %s", s)
		}
	}
	return errors.Errorf("pgn move %s is not legal at ply %d", s, r.plies)
}

// Plies returns the number of recorded moves.
func (r *Recorder) Plies() int {
	return r.plies
}

// Finish sets the result from a white-relative reward unless the moves have
// already decided the game.
func (r *Recorder) Finish(reward float64) {
	if r.game.Outcome() != chess.NoOutcome {
		return
	}
	switch {
	case reward > 0:
		r.game.Resign(chess.Black)
	case reward < 0:
		r.game.Resign(chess.White)
	default:
		_ = r.game.Draw(chess.DrawOffer)
	}
}

// Result returns the PGN result token.
func (r *Recorder) Result() string {
	return string(r.game.Outcome())
}

// PGN renders the game.
func (r *Recorder) PGN() string {
	return r.game.String()
}

// AppendPGN appends the game to the file at path, creating it if needed.
func (r *Recorder) AppendPGN(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	if _, err := f.WriteString(r.PGN() + "\n\n"); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
