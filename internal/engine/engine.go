// Package engine implements Monte Carlo tree search over board positions,
// with statistics keyed by Zobrist hash and an optional persistent Q-table
// that carries aggregate node values across sessions.
package engine

import (
	"context"
	"time"

	"github.com/hailam/mctschess/internal/board"
	"github.com/hailam/mctschess/internal/storage"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// DefaultCPuct is the exploration weight used by play and training.
const DefaultCPuct = 1.2

// MCTS is a single-threaded Monte Carlo tree search. The tree grows for the
// lifetime of the instance; nothing is evicted.
type MCTS struct {
	table  map[uint64]*Node
	qtable storage.QTable

	timeBudget  time.Duration
	persistentQ bool

	rng     *frand.RNG
	rollout Rollout

	path []frame // reused between simulations
}

// Option configures an MCTS.
type Option func(*MCTS)

// WithSeed makes the search noise reproducible. Zero keeps entropy seeding.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = newRNG(seed)
	}
}

// WithRollout replaces the playout policy.
func WithRollout(r Rollout) Option {
	return func(m *MCTS) {
		m.rollout = r
	}
}

// WithPersistentQ sets whether expansion reads and backup writes the Q-table.
func WithPersistentQ(enabled bool) Option {
	return func(m *MCTS) {
		m.persistentQ = enabled
	}
}

// WithTimeBudget sets the soft time budget, see SetTimeBudget.
func WithTimeBudget(d time.Duration) Option {
	return func(m *MCTS) {
		m.timeBudget = d
	}
}

// New creates a search with persistence enabled and no time budget.
func New(opts ...Option) *MCTS {
	m := &MCTS{
		table:       make(map[uint64]*Node),
		qtable:      make(storage.QTable),
		persistentQ: true,
		rollout:     DefaultRollout,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = newRNG(0)
	}
	return m
}

func newRNG(seed uint64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	var key [32]byte
	for i := 0; i < 8; i++ {
		key[i] = byte(seed >> (8 * i))
	}
	return frand.NewCustom(key[:], 1024, 12)
}

// SetTimeBudget lets a search keep simulating past its simulation count until
// d has elapsed. Zero disables the budget.
func (m *MCTS) SetTimeBudget(d time.Duration) {
	m.timeBudget = d
}

// EnablePersistentQ turns Q-table seeding and updating on or off.
func (m *MCTS) EnablePersistentQ(enabled bool) {
	m.persistentQ = enabled
}

// Node returns the tree node stored for a position hash.
func (m *MCTS) Node(hash uint64) (*Node, bool) {
	n, ok := m.table[hash]
	return n, ok
}

// TreeSize returns the number of distinct positions in the tree.
func (m *MCTS) TreeSize() int {
	return len(m.table)
}

// Clear drops the tree. The Q-table is kept.
func (m *MCTS) Clear() {
	m.table = make(map[uint64]*Node)
}

// QTable returns the live persistent table.
func (m *MCTS) QTable() storage.QTable {
	return m.qtable
}

// SetQTable replaces the persistent table. A nil table is treated as empty.
func (m *MCTS) SetQTable(q storage.QTable) {
	if q == nil {
		q = make(storage.QTable)
	}
	m.qtable = q
}

// LoadQTable replaces the persistent table with the contents of path. A
// missing file gives an empty table; a malformed one keeps the entries read
// before the error.
func (m *MCTS) LoadQTable(path string) {
	q, err := storage.LoadQTableFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Int("entries", len(q)).Msg("qtable-load-incomplete")
	}
	m.SetQTable(q)
}

// SaveQTable overwrites path with the persistent table.
func (m *MCTS) SaveQTable(path string) error {
	return storage.SaveQTableFile(path, m.qtable)
}

// SearchBestMove runs at least simulations playouts from root, longer if a
// time budget is set, and returns the most visited root move.
func (m *MCTS) SearchBestMove(root *board.Position, simulations int, cPuct float64) board.Move {
	return m.Search(context.Background(), root, Limits{
		Simulations: simulations,
		CPuct:       cPuct,
		TimeBudget:  m.timeBudget,
	}).Move
}
