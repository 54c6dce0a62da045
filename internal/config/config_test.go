package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("FENBOARD_DATA_DIR", dataDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		DataDir:    dataDir,
		ListenAddr: ":8080",
		LogLevel:   "info",
		Render: RenderConfig{
			SquareSize:  64,
			Light:       "#f0d9b5",
			Dark:        "#b58863",
			Coordinates: true,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadResolvesDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir == "" {
		t.Fatal("DataDir was not resolved")
	}
	if _, err := os.Stat(cfg.DataDir); err != nil {
		t.Errorf("data dir %q: %v", cfg.DataDir, err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fenboard.yaml")
	body := []byte("listen_addr: \"127.0.0.1:9000\"\nlog_level: debug\nrender:\n  square_size: 32\n  light: \"#fff\"\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FENBOARD_DATA_DIR", t.TempDir())
	t.Setenv("FENBOARD_RENDER_DARK", "#000000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Render.SquareSize != 32 {
		t.Errorf("SquareSize = %d", cfg.Render.SquareSize)
	}
	if cfg.Render.Light != "#fff" {
		t.Errorf("Light = %q", cfg.Render.Light)
	}
	if cfg.Render.Dark != "#000000" {
		t.Errorf("Dark = %q, want env override", cfg.Render.Dark)
	}

	opts, err := cfg.ImageOptions()
	if err != nil {
		t.Fatalf("ImageOptions() error = %v", err)
	}
	if opts.SquareSize != 32 {
		t.Errorf("opts.SquareSize = %d", opts.SquareSize)
	}
	if want := (color.RGBA{255, 255, 255, 255}); opts.Theme.LightSquare != want {
		t.Errorf("LightSquare = %v, want %v", opts.Theme.LightSquare, want)
	}
	if want := (color.RGBA{0, 0, 0, 255}); opts.Theme.DarkSquare != want {
		t.Errorf("DarkSquare = %v, want %v", opts.Theme.DarkSquare, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("FENBOARD_DATA_DIR", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() succeeded for a missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DataDir:    "/tmp",
			ListenAddr: ":8080",
			LogLevel:   "info",
			Render:     RenderConfig{SquareSize: 64, Light: "#f0d9b5", Dark: "#b58863"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }, false},
		{"zero square size", func(c *Config) { c.Render.SquareSize = 0 }, false},
		{"tiny square size", func(c *Config) { c.Render.SquareSize = 8 }, false},
		{"bad light", func(c *Config) { c.Render.Light = "tan" }, false},
		{"bad dark", func(c *Config) { c.Render.Dark = "#12345" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("FENBOARD_DATA_DIR", t.TempDir())
	t.Setenv("FENBOARD_RENDER_SQUARE_SIZE", "4")

	if _, err := Load(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want %v", err, ErrInvalidConfig)
	}
}
