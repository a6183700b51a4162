package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/nvr-ai/go-edgecam/images"
)

func sizesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sizes",
		Usage: "list standard camera sizes and the preview size that would be chosen",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-width", Usage: "preview width bound (overrides config)"},
			&cli.IntFlag{Name: "max-height", Usage: "preview height bound (overrides config)"},
		},
		Action: runSizes,
	}
}

func runSizes(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	maxW, maxH := cfg.Preview.MaxWidth, cfg.Preview.MaxHeight
	if c.IsSet("max-width") {
		maxW = c.Int("max-width")
	}
	if c.IsSet("max-height") {
		maxH = c.Int("max-height")
	}

	all := images.GetAllResolutions()
	chosen := images.ChoosePreviewSize(images.Sizes(all), maxW, maxH)

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tASPECT\tMEGAPIXELS\tNV21 BYTES\t")
	for _, r := range all {
		mark := ""
		if r.Pixels == chosen {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%s\n", r.Name, r.Pixels, r.AspectRatio, r.GetMegaPixels(), r.NV21Bytes(), mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\npreview for %dx%d: %s\n", maxW, maxH, chosen)
	return nil
}
