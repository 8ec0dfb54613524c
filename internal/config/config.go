// Package config loads process settings from .env, the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the server and CLI process configuration.
type Config struct {
	HTTPAddr       string        `mapstructure:"http_addr"`
	GRPCAddr       string        `mapstructure:"grpc_addr"`
	ProfilesDir    string        `mapstructure:"profiles_dir"`
	LogLevel       string        `mapstructure:"log_level"`
	Workers        int           `mapstructure:"workers"`
	MaxSimulations int           `mapstructure:"max_simulations"`
	MaxYears       int           `mapstructure:"max_years"`
	MaxPoints      int           `mapstructure:"max_points"`
	WatchInterval  time.Duration `mapstructure:"watch_interval"`
}

const envPrefix = "ROIC"

// Defaults fills every key.
func Defaults() Config {
	return Config{
		HTTPAddr:       ":8080",
		GRPCAddr:       ":9090",
		ProfilesDir:    "configs",
		LogLevel:       "info",
		Workers:        runtime.GOMAXPROCS(0),
		MaxSimulations: 100_000,
		MaxYears:       100,
		MaxPoints:      10_000,
		WatchInterval:  5 * time.Second,
	}
}

// Load reads .env files (missing ones are ignored), then an optional config
// file, then ROIC_* environment variables. Later sources win.
func Load(configFile string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	d := Defaults()
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("grpc_addr", d.GRPCAddr)
	v.SetDefault("profiles_dir", d.ProfilesDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("max_simulations", d.MaxSimulations)
	v.SetDefault("max_years", d.MaxYears)
	v.SetDefault("max_points", d.MaxPoints)
	v.SetDefault("watch_interval", d.WatchInterval)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if c.GRPCAddr == "" {
		errs = append(errs, errors.New("grpc_addr is required"))
	}
	if c.Workers < 1 {
		errs = append(errs, errors.New("workers must be >= 1"))
	}
	if c.MaxSimulations < 1 {
		errs = append(errs, errors.New("max_simulations must be >= 1"))
	}
	if c.MaxYears < 1 {
		errs = append(errs, errors.New("max_years must be >= 1"))
	}
	if c.MaxPoints < 1 {
		errs = append(errs, errors.New("max_points must be >= 1"))
	}
	if c.WatchInterval <= 0 {
		errs = append(errs, errors.New("watch_interval must be > 0"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	return errors.Join(errs...)
}
