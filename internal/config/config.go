// Package config loads fenboard settings from an optional file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hailam/fenboard/internal/render"
	"github.com/hailam/fenboard/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. FENBOARD_LISTEN_ADDR.
const EnvPrefix = "FENBOARD"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DataDir    string       `mapstructure:"data_dir"`
	ListenAddr string       `mapstructure:"listen_addr"`
	LogLevel   string       `mapstructure:"log_level"`
	Render     RenderConfig `mapstructure:"render"`
}

type RenderConfig struct {
	SquareSize  int    `mapstructure:"square_size"`
	Light       string `mapstructure:"light"`
	Dark        string `mapstructure:"dark"`
	Coordinates bool   `mapstructure:"coordinates"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("render.square_size", 64)
	v.SetDefault("render.light", "#f0d9b5")
	v.SetDefault("render.dark", "#b58863")
	v.SetDefault("render.coordinates", true)
}

// Load reads the config file at path, if any, then applies FENBOARD_*
// environment overrides. An empty data_dir resolves to the platform data
// directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := storage.DataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot check by type alone.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: listen_addr is empty", ErrInvalidConfig)
	}
	if c.Render.SquareSize < render.MinSquareSize {
		return fmt.Errorf("%w: render.square_size %d below %d",
			ErrInvalidConfig, c.Render.SquareSize, render.MinSquareSize)
	}
	if _, err := render.ParseHexColor(c.Render.Light); err != nil {
		return fmt.Errorf("%w: render.light: %v", ErrInvalidConfig, err)
	}
	if _, err := render.ParseHexColor(c.Render.Dark); err != nil {
		return fmt.Errorf("%w: render.dark: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ImageOptions converts the render section into renderer options.
func (c *Config) ImageOptions() (render.ImageOptions, error) {
	opts := render.DefaultImageOptions()
	opts.SquareSize = c.Render.SquareSize
	opts.Coordinates = c.Render.Coordinates

	light, err := render.ParseHexColor(c.Render.Light)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	dark, err := render.ParseHexColor(c.Render.Dark)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	opts.Theme.LightSquare = light
	opts.Theme.DarkSquare = dark
	return opts, nil
}
