// Package config provides configuration loading for go-edgecam.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-edgecam/frame"
	"github.com/nvr-ai/go-edgecam/images"
)

// Config represents the full configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Processing ProcessingConfig `yaml:"processing"`
	Preview    PreviewConfig    `yaml:"preview"`
	Server     ServerConfig     `yaml:"server"`
}

// LogConfig selects log verbosity and output encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProcessingConfig maps onto frame.Options.
type ProcessingConfig struct {
	LowThreshold  float32 `yaml:"low_threshold"`
	HighThreshold float32 `yaml:"high_threshold"`
	EdgeMask      string  `yaml:"edge_mask"`
	Rotation      string  `yaml:"rotation"`
	ShowEdges     bool    `yaml:"show_edges"`
}

// PreviewConfig bounds the camera preview size.
type PreviewConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// ServerConfig configures the HTTP bridge.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BodyLimit is the largest accepted request body in bytes.
	BodyLimit int `yaml:"body_limit"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Processing: ProcessingConfig{
			LowThreshold:  frame.DefaultLowThreshold,
			HighThreshold: frame.DefaultHighThreshold,
			EdgeMask:      frame.EdgeMaskTransparent.String(),
			Rotation:      frame.RotateNone.String(),
			ShowEdges:     true,
		},
		Preview: PreviewConfig{
			MaxWidth:  images.DefaultPreviewBound.Width,
			MaxHeight: images.DefaultPreviewBound.Height,
		},
		Server: ServerConfig{
			Addr: ":8080",
			// One 4K NV21 frame plus headroom.
			BodyLimit: 16 * 1024 * 1024,
		},
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Load returns the defaults when path is empty and LoadFromFile otherwise.
func Load(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	return LoadFromFile(path)
}

// Validate checks the processing options, preview bounds and server limits.
func (c Config) Validate() error {
	if _, err := c.ProcessorOptions(); err != nil {
		return err
	}
	if c.Preview.MaxWidth <= 0 || c.Preview.MaxHeight <= 0 {
		return errors.Errorf("preview bounds must be positive, got %dx%d", c.Preview.MaxWidth, c.Preview.MaxHeight)
	}
	if c.Server.BodyLimit <= 0 {
		return errors.Errorf("server body_limit must be positive, got %d", c.Server.BodyLimit)
	}
	return nil
}

// ProcessorOptions converts the processing section to frame.Options.
func (c Config) ProcessorOptions() (frame.Options, error) {
	mask, err := frame.ParseEdgeMask(c.Processing.EdgeMask)
	if err != nil {
		return frame.Options{}, err
	}
	rot, err := frame.ParseRotation(c.Processing.Rotation)
	if err != nil {
		return frame.Options{}, err
	}
	opts := frame.Options{
		LowThreshold:  c.Processing.LowThreshold,
		HighThreshold: c.Processing.HighThreshold,
		EdgeMask:      mask,
		Rotation:      rot,
	}
	if err := opts.Validate(); err != nil {
		return frame.Options{}, err
	}
	return opts, nil
}

// Processor builds a frame.Processor from the processing section.
func (c Config) Processor() (*frame.Processor, error) {
	opts, err := c.ProcessorOptions()
	if err != nil {
		return nil, err
	}
	return frame.NewProcessor(opts)
}
