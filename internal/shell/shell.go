// Package shell is the line-oriented command loop of mctschess: interactive
// play against the search, self-play training and perft.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/hailam/mctschess/internal/board"
	"github.com/hailam/mctschess/internal/config"
	"github.com/hailam/mctschess/internal/engine"
	"github.com/hailam/mctschess/internal/gamelog"
	"github.com/hailam/mctschess/internal/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const prompt = "Type: play, train, perft, fen, moves, or quit"

// Shell reads commands from in and writes to out.
type Shell struct {
	cfg   config.Config
	mcts  *engine.MCTS
	stats *storage.DB // nil unless the badger store is in use

	in  *bufio.Scanner
	out io.Writer

	startFEN string
}

// New creates a shell around a search instance. stats may be nil.
func New(cfg config.Config, m *engine.MCTS, stats *storage.DB, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		cfg:      cfg,
		mcts:     m,
		stats:    stats,
		in:       bufio.NewScanner(in),
		out:      out,
		startFEN: board.StartFEN,
	}
}

// TrainSummary tallies finished self-play games. Capped counts games cut off
// by the ply limit; they are not part of the other three.
type TrainSummary struct {
	WhiteWins int
	BlackWins int
	Draws     int
	Capped    int
}

// Run processes commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, prompt)
	for ctx.Err() == nil {
		fields, ok := s.readFields()
		if !ok {
			break
		}
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		var err error
		switch cmd {
		case "quit":
			return nil
		case "play":
			err = s.play(ctx)
		case "train":
			err = s.trainCommand(ctx, args)
		case "perft":
			err = s.perftCommand(ctx, args)
		case "fen":
			err = s.setFEN(args)
		case "moves":
			err = s.listMoves()
		default:
			fmt.Fprintf(s.out, "Unknown command: %s\n", cmd)
		}
		if err != nil {
			log.Error().Err(err).Str("command", cmd).Msg("command-failed")
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		fmt.Fprintln(s.out, prompt)
	}
	return errors.Wrap(s.in.Err(), "reading commands")
}

func (s *Shell) readFields() ([]string, bool) {
	if !s.in.Scan() {
		return nil, false
	}
	return strings.Fields(s.in.Text()), true
}

func (s *Shell) startPosition() (*board.Position, error) {
	return board.ParseFEN(s.startFEN)
}

func (s *Shell) setFEN(args []string) error {
	if len(args) == 0 || args[0] == "startpos" {
		s.startFEN = board.StartFEN
		return nil
	}
	fen := strings.Join(args, " ")
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return errors.Wrap(err, "fen")
	}
	if err := pos.Validate(); err != nil {
		return errors.Wrap(err, "fen")
	}
	s.startFEN = pos.ToFEN()
	fmt.Fprint(s.out, pos)
	return nil
}

func (s *Shell) listMoves() error {
	pos, err := s.startPosition()
	if err != nil {
		return err
	}
	moves := lo.Map(pos.GenerateLegalMoves(), func(m board.Move, _ int) string { return m.String() })
	fmt.Fprintf(s.out, "%d moves: %s\n", len(moves), strings.Join(moves, " "))
	return nil
}

// play lets the user take white against the search.
func (s *Shell) play(ctx context.Context) error {
	pos, err := s.startPosition()
	if err != nil {
		return err
	}

	for ctx.Err() == nil {
		fmt.Fprint(s.out, pos)
		res := pos.EvaluateTerminal()
		if res.Terminal {
			fmt.Fprintf(s.out, "Game over score=%g\n", res.Reward)
			log.Info().Float64("reward", res.Reward).Int("move", pos.FullMoveNumber).Msg("game-over")
			return nil
		}

		if !pos.WhiteToMove() {
			best := s.mcts.SearchBestMove(pos, s.cfg.Simulations, s.cfg.CPuct)
			fmt.Fprintf(s.out, "Engine plays %s (%s)\n", best.ToSAN(pos), best)
			pos.MakeMove(best)
			continue
		}

		fmt.Fprint(s.out, "Enter move like e2e4 or Nf3: ")
		fields, ok := s.readFields()
		if !ok {
			return nil
		}
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "resign" {
			fmt.Fprintln(s.out, "Game abandoned")
			return nil
		}
		m, err := board.ParseMove(fields[0], pos)
		if err != nil {
			if m, err = board.ParseSAN(fields[0], pos); err != nil {
				fmt.Fprintln(s.out, "Illegal")
				continue
			}
		}
		pos.MakeMove(m)
	}
	return ctx.Err()
}

func (s *Shell) trainCommand(ctx context.Context, args []string) error {
	games := s.cfg.TrainGames
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return errors.Errorf("train: invalid game count %q", args[0])
		}
		games = n
	}

	sum, err := s.Train(ctx, games)
	fmt.Fprintf(s.out, "W:%d B:%d D:%d\n", sum.WhiteWins, sum.BlackWins, sum.Draws)
	if sum.Capped > 0 {
		fmt.Fprintf(s.out, "Unfinished (ply limit): %d\n", sum.Capped)
	}
	return err
}

// Train plays games against itself with the training simulation count. The
// tree and Q-table carry over from game to game.
func (s *Shell) Train(ctx context.Context, games int) (TrainSummary, error) {
	var sum TrainSummary
	start := time.Now()

	for g := 0; g < games; g++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res, plies, err := s.selfPlay(g + 1)
		if err != nil {
			return sum, err
		}

		switch {
		case !res.Terminal:
			sum.Capped++
		case res.Reward > 0:
			sum.WhiteWins++
		case res.Reward < 0:
			sum.BlackWins++
		default:
			sum.Draws++
		}

		log.Debug().
			Int("game", g+1).
			Int("plies", plies).
			Float64("reward", res.Reward).
			Bool("terminal", res.Terminal).
			Int("q-entries", len(s.mcts.QTable())).
			Msg("self-play-game")
	}

	log.Info().
		Int("games", games).
		Int("white", sum.WhiteWins).
		Int("black", sum.BlackWins).
		Int("draws", sum.Draws).
		Int("capped", sum.Capped).
		Int("tree-size", s.mcts.TreeSize()).
		Dur("elapsed", time.Since(start)).
		Msg("training-finished")

	return sum, nil
}

// selfPlay plays one game and records it where configured.
func (s *Shell) selfPlay(round int) (board.GameResult, int, error) {
	pos, err := s.startPosition()
	if err != nil {
		return board.GameResult{}, 0, err
	}

	var rec *gamelog.Recorder
	if s.cfg.PGNPath != "" {
		if rec, err = gamelog.NewRecorder(s.startFEN, "mctschess", "mctschess", round); err != nil {
			return board.GameResult{}, 0, err
		}
	}

	begin := time.Now()
	var res board.GameResult
	plies := 0
	for ; ; plies++ {
		if res = pos.EvaluateTerminal(); res.Terminal || plies >= s.cfg.TrainMaxPlies {
			break
		}
		m := s.mcts.SearchBestMove(pos, s.cfg.TrainSimulations, s.cfg.CPuct)
		if rec != nil {
			if err := rec.Record(m); err != nil {
				return res, plies, err
			}
		}
		pos.MakeMove(m)
	}

	if rec != nil {
		rec.Finish(res.Reward)
		if err := rec.AppendPGN(s.cfg.PGNPath); err != nil {
			return res, plies, err
		}
	}

	if s.stats != nil && res.Terminal {
		err := s.stats.RecordGame(storage.GameResult{
			Reward:   res.Reward,
			Plies:    plies,
			Duration: time.Since(begin),
		})
		if err != nil {
			return res, plies, errors.Wrap(err, "recording game")
		}
	}

	return res, plies, nil
}

func (s *Shell) perftCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("perft: depth required")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		return errors.Errorf("perft: invalid depth %q", args[0])
	}
	verify := len(args) > 1 && args[1] == "verify"

	pos, err := s.startPosition()
	if err != nil {
		return err
	}

	start := time.Now()
	entries, err := pos.Divide(ctx, depth, 0)
	if err != nil {
		return errors.Wrap(err, "perft")
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "%s: %d\n", e.Move, e.Nodes)
	}
	total := lo.SumBy(entries, func(e board.DivideEntry) int64 { return e.Nodes })
	fmt.Fprintf(s.out, "Nodes: %d\n", total)

	log.Info().Int("depth", depth).Int64("nodes", total).Dur("elapsed", time.Since(start)).Msg("perft")

	if verify {
		b := dragontoothmg.ParseFen(pos.ToFEN())
		want := oraclePerft(&b, depth)
		if want != total {
			return errors.Errorf("perft mismatch at depth %d: got %d, reference %d", depth, total, want)
		}
		fmt.Fprintln(s.out, "Verified")
	}
	return nil
}

// oraclePerft counts leaves with the dragontoothmg generator.
func oraclePerft(b *dragontoothmg.Board, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		undo()
	}
	return nodes
}
