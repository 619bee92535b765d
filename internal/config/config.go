// Package config holds the runtime settings of the mctschess binary.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Q-table backends
const (
	QStoreText   = "text"
	QStoreBadger = "badger"
)

// DefaultZobristSeed keeps position hashes, and with them persisted Q-table
// keys, stable across runs.
const DefaultZobristSeed uint64 = 0x5eed_c0ff_ee15_900d

// Config is loaded from a JSON file; absent fields keep their defaults.
type Config struct {
	Simulations      int     `json:"simulations"`
	TrainSimulations int     `json:"train_simulations"`
	CPuct            float64 `json:"c_puct"`
	TimeBudgetMs     int     `json:"time_budget_ms"`

	PersistentQ bool   `json:"persistent_q"`
	QStore      string `json:"qstore"`
	QTablePath  string `json:"qtable_path"`
	BadgerDir   string `json:"badger_dir"`

	ZobristSeed uint64 `json:"zobrist_seed"` // 0 = entropy and wall clock
	SearchSeed  uint64 `json:"search_seed"`  // 0 = entropy

	TrainGames    int    `json:"train_games"`
	TrainMaxPlies int    `json:"train_max_plies"`
	PGNPath       string `json:"pgn_path"`

	LogLevel string `json:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Simulations:      2000,
		TrainSimulations: 64,
		CPuct:            1.2,
		TimeBudgetMs:     0,
		PersistentQ:      true,
		QStore:           QStoreText,
		QTablePath:       "data/qtable.txt",
		BadgerDir:        "data/qdb",
		ZobristSeed:      DefaultZobristSeed,
		TrainGames:       1000,
		TrainMaxPlies:    1000,
		LogLevel:         "info",
	}
}

// Load reads path over the defaults. An empty path or a missing file gives
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Simulations < 0:
		return errors.Errorf("simulations must be >= 0, got %d", c.Simulations)
	case c.TrainSimulations < 0:
		return errors.Errorf("train_simulations must be >= 0, got %d", c.TrainSimulations)
	case c.CPuct < 0:
		return errors.Errorf("c_puct must be >= 0, got %v", c.CPuct)
	case c.TimeBudgetMs < 0:
		return errors.Errorf("time_budget_ms must be >= 0, got %d", c.TimeBudgetMs)
	case c.QStore != QStoreText && c.QStore != QStoreBadger:
		return errors.Errorf("qstore must be %q or %q, got %q", QStoreText, QStoreBadger, c.QStore)
	case c.QStore == QStoreText && c.QTablePath == "":
		return errors.New("qtable_path is required for the text qstore")
	case c.QStore == QStoreBadger && c.BadgerDir == "":
		return errors.New("badger_dir is required for the badger qstore")
	case c.TrainGames < 0:
		return errors.Errorf("train_games must be >= 0, got %d", c.TrainGames)
	case c.TrainMaxPlies <= 0:
		return errors.Errorf("train_max_plies must be > 0, got %d", c.TrainMaxPlies)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// TimeBudget returns the soft search budget.
func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetMs) * time.Millisecond
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return lvl, nil
}
