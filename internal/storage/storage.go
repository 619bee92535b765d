package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Storage keys
const (
	keyStats    = "stats"
	prefixQ     = "q/"
	qKeyLength  = len(prefixQ) + 8
	batchLogged = 50000
)

// GameStats stores self-play statistics
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	WhiteWins     int           `json:"white_wins"`
	BlackWins     int           `json:"black_wins"`
	Draws         int           `json:"draws"`
	TotalPlies    int           `json:"total_plies"`
	LongestGame   int           `json:"longest_game"`
	TotalPlayTime time.Duration `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Reward   float64 // +1 white won, -1 black won, 0 draw
	Plies    int
	Duration time.Duration
}

// DB wraps BadgerDB for the Q-table and game statistics
type DB struct {
	db *badger.DB
}

// Open opens (or creates) a database in dir
func Open(dir string) (*DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger at %s", dir)
	}

	return &DB{db: db}, nil
}

// OpenDefault opens the database under the platform data directory
func OpenDefault() (*DB, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// OpenInMemory opens a database that lives only as long as the process
func OpenInMemory() (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening in-memory badger")
	}

	return &DB{db: db}, nil
}

// Close closes the database
func (s *DB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func qKey(hash uint64) []byte {
	k := make([]byte, qKeyLength)
	copy(k, prefixQ)
	binary.BigEndian.PutUint64(k[len(prefixQ):], hash)
	return k
}

// SaveQTable replaces the stored Q-table with q
func (s *DB) SaveQTable(q QTable) error {
	stale, err := s.staleQKeys(q)
	if err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, k := range stale {
		if err := wb.Delete(k); err != nil {
			return errors.Wrap(err, "deleting stale qtable entry")
		}
	}

	for i, k := range q.SortedKeys() {
		data, err := json.Marshal(q[k])
		if err != nil {
			return errors.Wrapf(err, "encoding qtable entry %d", k)
		}
		if err := wb.Set(qKey(k), data); err != nil {
			return errors.Wrap(err, "writing qtable entry")
		}
		if i > 0 && i%batchLogged == 0 {
			log.Debug().Int("written", i).Msg("qtable-save-progress")
		}
	}

	if err := wb.Flush(); err != nil {
		return errors.Wrap(err, "flushing qtable")
	}

	log.Debug().Int("entries", len(q)).Msg("qtable-saved-badger")
	return nil
}

// staleQKeys lists stored Q keys that are absent from q.
func (s *DB) staleQKeys(q QTable) ([][]byte, error) {
	var stale [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixQ)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if len(key) != qKeyLength {
				stale = append(stale, key)
				continue
			}
			if _, ok := q[binary.BigEndian.Uint64(key[len(prefixQ):])]; !ok {
				stale = append(stale, key)
			}
		}
		return nil
	})

	return stale, errors.Wrap(err, "scanning qtable keys")
}

// LoadQTable reads the stored Q-table, empty if none was saved
func (s *DB) LoadQTable() (QTable, error) {
	q := make(QTable)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixQ)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != qKeyLength {
				return errors.Errorf("malformed qtable key %x", key)
			}
			hash := binary.BigEndian.Uint64(key[len(prefixQ):])

			var e QEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return errors.Wrapf(err, "decoding qtable entry %d", hash)
			}
			q[hash] = e
		}
		return nil
	})

	log.Debug().Int("entries", len(q)).Msg("qtable-loaded-badger")
	return q, err
}

// SaveStats saves game statistics
func (s *DB) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *DB) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *DB) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlies += result.Plies
	stats.TotalPlayTime += result.Duration
	if result.Plies > stats.LongestGame {
		stats.LongestGame = result.Plies
	}

	switch {
	case result.Reward > 0:
		stats.WhiteWins++
	case result.Reward < 0:
		stats.BlackWins++
	default:
		stats.Draws++
	}

	return s.SaveStats(stats)
}

// WhiteScore returns white's score as a percentage (0-100), a draw counting half
func (s *GameStats) WhiteScore() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return (float64(s.WhiteWins) + float64(s.Draws)/2) / float64(s.GamesPlayed) * 100
}

// AverageLength returns the mean game length in plies
func (s *GameStats) AverageLength() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}
