package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// PostureRule is the yaml form of one posture rule. Conditions are expr
// source compiled at startup; a file with a bad condition fails fast
// instead of being probed at tick time.
type PostureRule struct {
	Name            string `yaml:"name"`
	Priority        int    `yaml:"priority"`
	Condition       string `yaml:"condition"`
	Defenders       int    `yaml:"defenders"`
	SafeAttack      bool   `yaml:"safeAttack"`
	SafetyMargin    int    `yaml:"safetyMargin"`
	RescueThreshold int    `yaml:"rescueThreshold"`
}

type Config struct {
	// Listen is the websocket listen address the game connects to.
	Listen string `yaml:"listen"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
	// ReplayDir enables compressed per-match replays when non-empty.
	ReplayDir string `yaml:"replayDir"`
	// ResultsDB enables the sqlite match archive when non-empty.
	ResultsDB string `yaml:"resultsDB"`
	// Posture overrides the built-in posture rules when non-empty.
	Posture []PostureRule `yaml:"posture"`
}

func Default() Config {
	return Config{
		Listen:   ":8080",
		LogLevel: "info",
	}
}

// Load overlays the yaml file at path onto the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level. Unknown
// names fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
