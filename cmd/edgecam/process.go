package main

import (
	"image"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/nvr-ai/go-edgecam/encode"
	"github.com/nvr-ai/go-edgecam/images"
	edgelog "github.com/nvr-ai/go-edgecam/internal/log"
)

func processCommand() *cli.Command {
	return &cli.Command{
		Name:  "process",
		Usage: "convert one raw frame file to an image",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "in", Aliases: []string{"i"}, Usage: "raw frame file", Required: true},
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: "frame width in pixels", Required: true},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: "frame height in pixels", Required: true},
			&cli.StringFlag{Name: "input-format", Value: string(images.FormatNV21), Usage: "layout of the input file: nv21 or i420"},
			&cli.BoolFlag{Name: "edges", Aliases: []string{"e"}, Usage: "output the Canny edge map"},
			&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (.png, .bmp, .tif, .webp, .rgba)", Required: true},
			&cli.IntFlag{Name: "max-width", Usage: "downscale the output to at most this width (0 keeps the frame size)"},
		},
		Action: runProcess,
	}
}

func runProcess(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	proc, err := cfg.Processor()
	if err != nil {
		return err
	}

	outPath := c.Path("out")
	format, err := encode.FormatFromPath(outPath)
	if err != nil {
		return err
	}

	width, height := c.Int("width"), c.Int("height")
	data, err := os.ReadFile(c.Path("in"))
	if err != nil {
		return errors.Wrap(err, "read frame")
	}

	switch images.ImageFormat(c.String("input-format")) {
	case images.FormatNV21:
	case images.FormatI420:
		if data, err = images.I420ToNV21(data, width, height); err != nil {
			return err
		}
	default:
		return errors.Wrapf(images.ErrUnknownFormat, "input format %q", c.String("input-format"))
	}

	edges := showEdges(c, cfg)
	out, err := proc.ProcessFrame(images.Image{
		Format: images.FormatNV21,
		Data:   data,
		Width:  width,
		Height: height,
	}, edges)
	if err != nil {
		return err
	}

	rgba, err := images.ToRGBAImage(out.Data, out.Width, out.Height)
	if err != nil {
		return err
	}
	var img image.Image = rgba
	if maxWidth := c.Int("max-width"); maxWidth > 0 && out.Width > maxWidth {
		img = images.ScaleToWidth(rgba, maxWidth)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := encode.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}

	edgelog.Info("frame written",
		"out", outPath,
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"edges", edges,
		"checksum", images.ComputeChecksum(out.Data),
	)
	return nil
}
