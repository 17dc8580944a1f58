// Package config loads the server configuration from a YAML file and
// MAPDIST_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MAPDIST_SERVER_ADDR.
const EnvPrefix = "MAPDIST"

// Config is the full configuration of the distance server.
type Config struct {
	Graph  GraphConfig  `mapstructure:"graph"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// GraphConfig locates the preprocessed graph and sizes the engine pool.
type GraphConfig struct {
	Path             string  `mapstructure:"path"`
	Engines          int     `mapstructure:"engines"`
	SnapRadiusMeters float64 `mapstructure:"snap_radius_meters"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxConcurrent  int           `mapstructure:"max_concurrent"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst      int           `mapstructure:"rate_burst"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("graph.path", "graph.bin")
	v.SetDefault("graph.engines", runtime.NumCPU())
	v.SetDefault("graph.snap_radius_meters", 500.0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.max_concurrent", runtime.NumCPU()*2)
	v.SetDefault("server.rate_limit", 0.0)
	v.SetDefault("server.rate_burst", 50)
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("log.level", "info")
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults alone always decode and validate.
		panic(err)
	}
	return cfg
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Graph.Path == "":
		return errors.New("config: graph.path is required")
	case c.Graph.Engines < 1:
		return fmt.Errorf("config: graph.engines must be positive, got %d", c.Graph.Engines)
	case c.Graph.SnapRadiusMeters <= 0:
		return fmt.Errorf("config: graph.snap_radius_meters must be positive, got %g", c.Graph.SnapRadiusMeters)
	case c.Server.Addr == "":
		return errors.New("config: server.addr is required")
	case c.Server.MaxConcurrent < 1:
		return fmt.Errorf("config: server.max_concurrent must be positive, got %d", c.Server.MaxConcurrent)
	case c.Server.RateLimit < 0:
		return fmt.Errorf("config: server.rate_limit must not be negative, got %g", c.Server.RateLimit)
	case c.Server.RateLimit > 0 && c.Server.RateBurst < 1:
		return fmt.Errorf("config: server.rate_burst must be positive, got %d", c.Server.RateBurst)
	}
	return nil
}
