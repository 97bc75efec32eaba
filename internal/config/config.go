package config

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/spf13/viper"
)

// FileName is the optional config file looked up in the config dir.
const FileName = "tank_arena.json"

// EnvPrefix prefixes environment overrides, e.g. TANKARENA_SPAWN_RETRIES.
const EnvPrefix = "TANKARENA"

// WindowConfig holds desktop window settings
type WindowConfig struct {
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
	Title  string `json:"title" mapstructure:"title"`
}

// CameraConfig holds view settings
type CameraConfig struct {
	Size float64 `json:"size" mapstructure:"size"` // half-height in world units
}

// SpawnConfig holds enemy top-up tuning
type SpawnConfig struct {
	Retries  int `json:"retries" mapstructure:"retries"`
	PerLevel int `json:"perLevel" mapstructure:"perLevel"`
	Base     int `json:"base" mapstructure:"base"`
}

// AudioConfig holds sound settings
type AudioConfig struct {
	Enabled bool    `json:"enabled" mapstructure:"enabled"`
	Volume  float64 `json:"volume" mapstructure:"volume"` // log2 gain, 0 = unchanged
}

// ScoreConfig holds high score storage settings
type ScoreConfig struct {
	Driver string `json:"driver" mapstructure:"driver"` // sqlite or postgres
	Path   string `json:"path" mapstructure:"path"`
	DSN    string `json:"dsn" mapstructure:"dsn"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel string       `json:"logLevel" mapstructure:"logLevel"`
	LogsDir  string       `json:"logsDir" mapstructure:"logsDir"`
	TickRate int          `json:"tickRate" mapstructure:"tickRate"`
	Seed     int64        `json:"seed" mapstructure:"seed"`
	Window   WindowConfig `json:"window" mapstructure:"window"`
	Camera   CameraConfig `json:"camera" mapstructure:"camera"`
	Spawn    SpawnConfig  `json:"spawn" mapstructure:"spawn"`
	Audio    AudioConfig  `json:"audio" mapstructure:"audio"`
	Score    ScoreConfig  `json:"score" mapstructure:"score"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// leaves the defaults in place.
func Load(configDir string) (*Config, error) {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("tickRate", 60)
	viper.SetDefault("seed", 0)

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "Tank Arena")

	viper.SetDefault("camera.size", 3.0)

	viper.SetDefault("spawn.retries", 10)
	viper.SetDefault("spawn.perLevel", 3)
	viper.SetDefault("spawn.base", 1)

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.volume", 0.0)

	viper.SetDefault("score.driver", "sqlite")
	viper.SetDefault("score.path", "./tank_arena.db")
	viper.SetDefault("score.dsn", "")

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Camera.Size <= 0:
		return fmt.Errorf("camera.size must be positive, got %g", c.Camera.Size)
	case c.Spawn.Retries < 0:
		return fmt.Errorf("spawn.retries must not be negative, got %d", c.Spawn.Retries)
	case c.Score.Driver != "sqlite" && c.Score.Driver != "postgres":
		return fmt.Errorf("score.driver must be sqlite or postgres, got %q", c.Score.Driver)
	}
	return nil
}

// Aspect is the window width over height.
func (c *Config) Aspect() float64 {
	return float64(c.Window.Width) / float64(c.Window.Height)
}

// SimOptions converts the config into simulation options.
func (c *Config) SimOptions() []game.Option {
	opts := []game.Option{
		game.WithCamera(c.Aspect(), c.Camera.Size),
		game.WithSpawnTuning(c.Spawn.Retries, c.Spawn.PerLevel, c.Spawn.Base),
	}
	if c.Seed != 0 {
		opts = append(opts, game.WithRNG(rand.New(rand.NewSource(c.Seed)))) // #nosec G404 -- gameplay randomness
	}
	return opts
}
