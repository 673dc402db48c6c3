package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlcore/dungeon/internal/config"
	"github.com/rlcore/dungeon/internal/data"
	"github.com/rlcore/dungeon/internal/game"
	"github.com/rlcore/dungeon/internal/persist"
	"github.com/rlcore/dungeon/internal/scripting"
	"github.com/rlcore/dungeon/internal/spawner"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	fmt.Printf("  \033[33m── %s\033[0m\n", title)
}

func printStat(label string, count int) {
	fmt.Printf("  %-28s \033[32m%d\033[0m\n", label, count)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/dungeon.toml"
	if p := os.Getenv("DUNGEON_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Load prefabs and spawn scripts
	printSection("Data")
	prefabs, err := data.LoadPrefabTable(cfg.Data.PrefabPath)
	if err != nil {
		return fmt.Errorf("load prefabs: %w", err)
	}
	printStat("Monster prefabs", prefabs.MonsterCount())
	printStat("Item prefabs", prefabs.ItemCount())

	scripts, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("init lua: %w", err)
	}
	defer scripts.Close()
	printOK("Spawn scripts loaded")

	// 4. Open the save store
	printSection("Saves")
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	printOK("Save backend: " + cfg.Snapshot.Backend)

	sess := game.NewSession(ctx, cfg.Game, store,
		spawner.New(prefabs, scripts, cfg.Game.MaxSpawns, log), log)

	// 5. Play until the player quits, input ends or a signal arrives
	return newConsole(sess, os.Stdin, os.Stdout, cfg.Game.LogLines).Run(ctx)
}

// openStore returns the configured snapshot store and its cleanup.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.Store, func(), error) {
	switch cfg.Snapshot.Backend {
	case "postgres":
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		return persist.NewPGStore(db, cfg.Snapshot.Slot, log), db.Close, nil
	default:
		return persist.NewFileStore(cfg.Snapshot.Path, log), func() {}, nil
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
