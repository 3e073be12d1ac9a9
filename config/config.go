// Package config loads the YAML configuration shared by the OpenGL backend
// and the demo.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML document.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Log      LogConfig      `yaml:"log"`
	Demo     DemoConfig     `yaml:"demo"`
}

type WindowConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	VSync   bool   `yaml:"vsync"`
	Visible bool   `yaml:"visible"`
}

// RendererConfig tunes the OpenGL backend.
type RendererConfig struct {
	ShadowMapSize   int        `yaml:"shadow_map_size"`
	RenderQueueSize int        `yaml:"render_queue_size"`
	ClearColor      [4]float32 `yaml:"clear_color"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"` // empty = stdout
}

// DemoConfig names the assets cmd/demo loads.
type DemoConfig struct {
	Mesh     string `yaml:"mesh"`
	Texture  string `yaml:"texture"`
	Font     string `yaml:"font"`
	FontSize int    `yaml:"font_size"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:   1280,
			Height:  720,
			Title:   "renderlib",
			VSync:   true,
			Visible: true,
		},
		Renderer: RendererConfig{
			ShadowMapSize:   2048,
			RenderQueueSize: 1000,
			ClearColor:      [4]float32{0.1, 0.1, 0.1, 1},
		},
		Log: LogConfig{Level: "info"},
		Demo: DemoConfig{
			Mesh:     "data/zombie.glb",
			Texture:  "data/zombie.png",
			Font:     "data/sans.ttf",
			FontSize: 18,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if n := c.Renderer.ShadowMapSize; n <= 0 || n&(n-1) != 0 {
		errs = append(errs, fmt.Errorf("shadow_map_size %d must be a power of two", n))
	}
	if c.Renderer.RenderQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("render_queue_size %d must be positive", c.Renderer.RenderQueueSize))
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear_color[%d] = %v out of [0, 1]", i, v))
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	if c.Demo.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font_size %d must be positive", c.Demo.FontSize))
	}
	return errors.Join(errs...)
}
