package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/manngobeh2006/oneclick-master/cache"
	"github.com/manngobeh2006/oneclick-master/config"
	"github.com/manngobeh2006/oneclick-master/db"
	"github.com/manngobeh2006/oneclick-master/logger"
	"github.com/manngobeh2006/oneclick-master/repository"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "oneclick-master",
	Short: "Adaptive mastering parameter engine.",
	Long: `oneclick-master resolves mastering parameters for analyzed tracks from
base profiles, genre reference templates and per-track measurements, and
compiles them into executable filter graphs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		})
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCorpus connects the configured corpus backend. The cleanup function is
// safe to defer immediately.
func openCorpus() (repository.CorpusRepository, func(), error) {
	noop := func() {}

	switch cfg.CorpusBackend {
	case "memory":
		return repository.NewMemoryCorpusRepository(), noop, nil

	case "mysql":
		if err := db.ConnectDB(cfg); err != nil {
			return nil, noop, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		if err := db.InitDB(); err != nil {
			db.CloseDB()
			return nil, noop, fmt.Errorf("failed to initialize schema: %w", err)
		}
		if err := db.ConnectGormDB(cfg); err != nil {
			db.CloseDB()
			return nil, noop, fmt.Errorf("failed to connect gorm: %w", err)
		}
		cleanup := func() {
			db.CloseGormDB()
			db.CloseDB()
		}
		return repository.NewGormCorpusRepository(db.GormDB), cleanup, nil

	default:
		return nil, noop, fmt.Errorf("unknown corpus backend %q", cfg.CorpusBackend)
	}
}

// openRedis connects the analysis cache and corpus event bus when Redis is
// configured. Both returns are nil otherwise; callers pass them through as
// no-ops.
func openRedis() (*cache.AnalysisCache, *cache.CorpusEvents) {
	if cfg.RedisHost == "" {
		return nil, nil
	}
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, continuing without cache and events",
			logger.ErrorField(err))
		return nil, nil
	}
	ttl := time.Duration(cfg.AnalysisCacheTTL) * time.Minute
	return cache.NewAnalysisCache(db.RedisClient, ttl), cache.NewCorpusEvents(db.RedisClient)
}
