// Command edgecam converts NV21 camera frames to RGBA or Canny edge maps.
//
// Usage:
//
//	edgecam process --in frame.nv21 --width 640 --height 480 --edges --out edges.png
//	edgecam batch --in-dir frames/ --out-dir out/ --width 640 --height 480
//	edgecam serve --addr :8080
//	edgecam webcam --device 0
//	edgecam sizes --max-width 1280 --max-height 720
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/nvr-ai/go-edgecam/config"
	edgelog "github.com/nvr-ai/go-edgecam/internal/log"
)

var version = "dev"

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		edgelog.Error("edgecam failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "edgecam",
		Usage:   "convert NV21 camera frames to RGBA and Canny edge maps",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"EDGECAM_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "json, text or auto (overrides config)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			processCommand(),
			batchCommand(),
			serveCommand(),
			webcamCommand(),
			sizesCommand(),
		},
	}
}

// setup loads the config, applies the global flag overrides and initializes
// logging before any command runs.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if format := c.String("log-format"); format != "" {
		cfg.Log.Format = format
	}
	edgelog.Init(cfg.Log.Level, cfg.Log.Format)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) (config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(config.Config)
	if !ok {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return cfg, nil
}

// showEdges prefers the command flag and falls back to the config file.
func showEdges(c *cli.Context, cfg config.Config) bool {
	if c.IsSet("edges") {
		return c.Bool("edges")
	}
	return cfg.Processing.ShowEdges
}
