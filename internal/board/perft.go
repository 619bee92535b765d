package board

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness.
func (p *Position) Perft(depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		undo := p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// DivideEntry is the leaf count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes int64
}

// Divide runs perft below each root move in parallel, one position copy per
// move. Results keep the root move generation order.
func (p *Position) Divide(ctx context.Context, depth, workers int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	moves := p.GenerateLegalMoves()
	entries := make([]DivideEntry, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child := *p
			child.MakeMove(m)
			entries[i] = DivideEntry{Move: m, Nodes: child.Perft(depth - 1)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
