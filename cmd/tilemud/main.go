package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tilemud/server/internal/config"
	"github.com/tilemud/server/internal/core/event"
	coresys "github.com/tilemud/server/internal/core/system"
	"github.com/tilemud/server/internal/system"
	"github.com/tilemud/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// permissiveCatalog stands in for the external asset manager: it accepts
// every texture identifier. The real manager is injected here when this
// core is embedded in the full application.
type permissiveCatalog struct{}

func (permissiveCatalog) Has(string) bool { return true }

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("TILEMUD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	bus := event.NewBus()
	state := world.NewState(world.Options{
		MapDir:          cfg.Data.MapDir,
		CollisionDir:    cfg.Data.CollisionDir,
		DefaultWalkable: cfg.Collision.DefaultWalkable,
	}, permissiveCatalog{}, bus, log)

	// Telemetry: load/unload completion signals.
	event.Subscribe(bus, func(ev event.MapLoaded) {
		log.Info("map load complete",
			zap.Int16("map", ev.MapID),
			zap.Int("tiles", ev.TileCount),
			zap.Int("animated", ev.AnimatedCount),
			zap.Int("objects", ev.ObjectCount),
		)
	})
	event.Subscribe(bus, func(ev event.MapUnloaded) {
		log.Info("map unload complete",
			zap.Int16("map", ev.MapID),
			zap.Strings("freed_textures", ev.ReleasedTextures),
		)
	})

	for _, mapID := range cfg.Data.Maps {
		if _, err := state.LoadMap(mapID); err != nil {
			return fmt.Errorf("boot load: %w", err)
		}
	}

	runner := coresys.NewRunner()
	runner.Register(system.NewDispatchSystem(bus))
	runner.Register(system.NewAnimationSystem(state.Animations(), state.AnimationStates()))
	runner.Register(system.NewSpatialReindexSystem(state))
	runner.Register(system.NewCleanupSystem(state.World()))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	state.IndexStatic()
	entities, cells := state.Spatial().Diagnostics()
	log.Info("simulation started",
		zap.Duration("tick", cfg.Simulation.TickRate),
		zap.Int("maps", state.MapCount()),
		zap.Int("indexed_entities", entities),
		zap.Int("occupied_cells", cells),
	)

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
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
