package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/go-edgecam/encode"
	"github.com/nvr-ai/go-edgecam/frame"
	"github.com/nvr-ai/go-edgecam/images"
	edgelog "github.com/nvr-ai/go-edgecam/internal/log"
	"github.com/nvr-ai/go-edgecam/util"
)

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "convert a directory of recorded frame-<n>.nv21 files",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "in-dir", Usage: "directory of .nv21, .yuv or .i420 frames", Required: true},
			&cli.PathFlag{Name: "out-dir", Usage: "directory for the converted images", Required: true},
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: "frame width in pixels", Required: true},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: "frame height in pixels", Required: true},
			&cli.BoolFlag{Name: "edges", Aliases: []string{"e"}, Usage: "output Canny edge maps"},
			&cli.StringFlag{Name: "format", Value: string(encode.PNG), Usage: "png, bmp, tiff, webp or raw"},
			&cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "frames converted in parallel"},
		},
		Action: runBatch,
	}
}

func runBatch(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	proc, err := cfg.Processor()
	if err != nil {
		return err
	}
	format, err := encode.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	frames, err := util.LoadDirectoryFrameFiles(c.Path("in-dir"))
	if err != nil {
		return err
	}
	outDir := c.Path("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	width, height := c.Int("width"), c.Int("height")
	edges := showEdges(c, cfg)

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(max(1, c.Int("workers")))
	for _, f := range frames {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return convertFrameFile(proc, f, width, height, edges, format, outDir)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	edgelog.Info("batch converted", "frames", len(frames), "out", outDir, "edges", edges)
	return nil
}

func convertFrameFile(proc *frame.Processor, f util.FrameFile, width, height int, edges bool, format encode.Format, outDir string) error {
	nv21, err := f.NV21(width, height)
	if err != nil {
		return errors.Wrapf(err, "frame %d", f.Frame)
	}
	out, err := proc.ProcessFrame(images.Image{
		Format: images.FormatNV21,
		Data:   nv21,
		Width:  width,
		Height: height,
	}, edges)
	if err != nil {
		return errors.Wrapf(err, "frame %d", f.Frame)
	}
	img, err := images.ToRGBAImage(out.Data, out.Width, out.Height)
	if err != nil {
		return err
	}

	ext := string(format)
	if format == encode.Raw {
		ext = "rgba"
	}
	path := filepath.Join(outDir, fmt.Sprintf("frame-%d.%s", f.Frame, ext))
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := encode.Encode(w, img, format); err != nil {
		w.Close()
		return err
	}
	return errors.Wrapf(w.Close(), "close %s", path)
}
