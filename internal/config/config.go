package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Data       DataConfig       `toml:"data"`
	Collision  CollisionConfig  `toml:"collision"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
}

type DataConfig struct {
	MapDir       string  `toml:"map_dir"`
	CollisionDir string  `toml:"collision_dir"`
	Maps         []int16 `toml:"maps"` // map ids loaded at boot
}

type CollisionConfig struct {
	// DefaultWalkable decides walkability on maps with no collision grid.
	// The inherited behavior is true; set false to require explicit data.
	DefaultWalkable bool `toml:"default_walkable"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate: 50 * time.Millisecond,
		},
		Data: DataConfig{
			MapDir:       "data/maps",
			CollisionDir: "data/collision",
		},
		Collision: CollisionConfig{
			DefaultWalkable: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
