package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/hailam/mctschess/internal/board"
	"github.com/hailam/mctschess/internal/config"
	"github.com/hailam/mctschess/internal/engine"
	"github.com/hailam/mctschess/internal/shell"
	"github.com/hailam/mctschess/internal/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	configPath = flag.String("config", "", "JSON config file")
	games      = flag.Int("games", -1, "self-play games per train command (overrides config)")
	sims       = flag.Int("sims", -1, "simulations per engine move in play (overrides config)")
	qtablePath = flag.String("qtable", "", "text Q-table path (overrides config)")
	logLevel   = flag.String("log-level", "", "trace, debug, info, warn or error (overrides config)")
	userData   = flag.Bool("userdata", false, "keep the Q-store in the platform data directory")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu-profiling")
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("exiting")
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}
	if *games >= 0 {
		cfg.TrainGames = *games
	}
	if *sims >= 0 {
		cfg.Simulations = *sims
	}
	if *qtablePath != "" {
		cfg.QTablePath = *qtablePath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	board.SeedZobrist(cfg.ZobristSeed)

	m := engine.New(
		engine.WithSeed(cfg.SearchSeed),
		engine.WithPersistentQ(cfg.PersistentQ),
		engine.WithTimeBudget(cfg.TimeBudget()),
	)

	var db *storage.DB
	if cfg.QStore == config.QStoreBadger {
		var err error
		if db, err = openBadger(cfg); err != nil {
			return err
		}
		defer db.Close()

		q, err := db.LoadQTable()
		if err != nil {
			return errors.Wrap(err, "loading q-table")
		}
		m.SetQTable(q)
	} else {
		if *userData {
			path, err := storage.GetQTablePath()
			if err != nil {
				return errors.Wrap(err, "locating q-table")
			}
			cfg.QTablePath = path
		}
		m.LoadQTable(cfg.QTablePath)
	}

	log.Info().
		Str("qstore", cfg.QStore).
		Int("q-entries", len(m.QTable())).
		Int("simulations", cfg.Simulations).
		Float64("c-puct", cfg.CPuct).
		Msg("ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// A second interrupt kills the process without saving.
		stop()
		log.Warn().Msg("interrupted; finishing the current command")
	}()

	sh := shell.New(cfg, m, db, os.Stdin, os.Stdout)
	runErr := sh.Run(ctx)

	// The Q-store is saved even after an interrupt so training progress survives.
	var saveErr error
	if db != nil {
		saveErr = db.SaveQTable(m.QTable())
	} else {
		saveErr = m.SaveQTable(cfg.QTablePath)
	}
	if saveErr != nil {
		saveErr = errors.Wrap(saveErr, "saving q-table")
	} else {
		log.Info().Int("q-entries", len(m.QTable())).Msg("qtable-stored")
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return saveErr
}

func openBadger(cfg config.Config) (*storage.DB, error) {
	if *userData {
		db, err := storage.OpenDefault()
		return db, errors.Wrap(err, "opening default badger store")
	}
	db, err := storage.Open(cfg.BadgerDir)
	return db, errors.Wrapf(err, "opening badger store %s", cfg.BadgerDir)
}
