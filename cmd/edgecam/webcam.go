package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-edgecam/images"
	edgelog "github.com/nvr-ai/go-edgecam/internal/log"
	"github.com/nvr-ai/go-edgecam/pipeline"
)

const (
	keyEscape = 27
	keyEdges  = 'e'
	keyQuit   = 'q'
)

func webcamCommand() *cli.Command {
	return &cli.Command{
		Name:  "webcam",
		Usage: "show a live camera preview with an edge toggle ('e' toggles, 'q' or ESC quits)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "device", Aliases: []string{"d"}, Usage: "video capture device id"},
			&cli.BoolFlag{Name: "edges", Aliases: []string{"e"}, Usage: "start with the edge map shown"},
			&cli.StringFlag{Name: "title", Value: "edgecam", Usage: "preview window title"},
		},
		Action: runWebcam,
	}
}

func runWebcam(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	proc, err := cfg.Processor()
	if err != nil {
		return err
	}

	deviceID := c.Int("device")
	webcam, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return errors.Wrapf(err, "open capture device %d", deviceID)
	}
	defer webcam.Close()

	// Ask for the preview size a phone would pick; the device may ignore it.
	want := images.ChoosePreviewSize(images.Sizes(images.GetAllResolutions()), cfg.Preview.MaxWidth, cfg.Preview.MaxHeight)
	webcam.Set(gocv.VideoCaptureFrameWidth, float64(want.Width))
	webcam.Set(gocv.VideoCaptureFrameHeight, float64(want.Height))

	window := gocv.NewWindow(c.String("title"))
	defer window.Close()

	sink := pipeline.NewLatestFrame()
	p := pipeline.New(proc, sink,
		pipeline.WithLogger(edgelog.L()),
		pipeline.WithShowEdges(showEdges(c, cfg)),
	)
	log := edgelog.With("stream", p.ID().String(), "device", deviceID)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- p.Run(ctx) }()
	defer func() {
		stop()
		p.Close()
		<-runErr
	}()

	img := gocv.NewMat()
	defer img.Close()
	yuv := gocv.NewMat()
	defer yuv.Close()
	bgr := gocv.NewMat()
	defer bgr.Close()

	// FPS tracking variables
	fps := 0.0
	frameCount := 0
	lastTime := time.Now()

	log.Info("reading camera", "requested", want.String())
	for ctx.Err() == nil {
		if ok := webcam.Read(&img); !ok {
			return errors.Errorf("cannot read device %d", deviceID)
		}
		if img.Empty() {
			continue
		}

		nv21, w, h, err := captureNV21(img, &yuv)
		if err != nil {
			return err
		}
		p.Submit(pipeline.Frame{Data: nv21, Width: w, Height: h, Captured: time.Now()})

		// Update FPS calculation
		frameCount++
		currentTime := time.Now()
		elapsed := currentTime.Sub(lastTime).Seconds()

		// Calculate FPS every second
		if elapsed >= 1.0 {
			fps = float64(frameCount) / elapsed
			frameCount = 0
			lastTime = currentTime
			st := p.Stats()
			log.Debug("capture",
				"fps", fps,
				"processed_fps", st.FPS,
				"dropped", st.Dropped,
				"failed", st.Failed,
				"latency", st.LastLatency,
			)
		}

		select {
		case <-sink.Updated():
			if err := render(window, sink, &bgr, fps); err != nil {
				return err
			}
		default:
		}

		switch key := window.WaitKey(1); key {
		case keyEdges:
			log.Info("edges toggled", "on", p.ToggleEdges())
		case keyQuit, keyEscape:
			return nil
		}
	}
	return nil
}

// captureNV21 repacks a BGR camera frame into NV21 the way an Android
// camera delivers preview frames.
func captureNV21(img gocv.Mat, yuv *gocv.Mat) ([]byte, int, int, error) {
	w, h := img.Cols(), img.Rows()
	if w%2 != 0 || h%2 != 0 {
		return nil, 0, 0, errors.Errorf("camera frame %dx%d is not even sized", w, h)
	}
	if err := gocv.CvtColor(img, yuv, gocv.ColorBGRToYUVI420); err != nil {
		return nil, 0, 0, errors.Wrap(err, "convert bgr to i420")
	}
	nv21, err := images.I420ToNV21(yuv.ToBytes(), w, h)
	if err != nil {
		return nil, 0, 0, err
	}
	return nv21, w, h, nil
}

// render shows the newest processed frame with an FPS overlay.
func render(window *gocv.Window, sink *pipeline.LatestFrame, bgr *gocv.Mat, fps float64) error {
	frame, _, edges, ok := sink.Snapshot()
	if !ok {
		return nil
	}

	rgba, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC4, frame.Data)
	if err != nil {
		return errors.Wrap(err, "wrap rgba frame")
	}
	defer rgba.Close()

	if err := gocv.CvtColor(rgba, bgr, gocv.ColorRGBAToBGR); err != nil {
		return errors.Wrap(err, "convert rgba to bgr")
	}

	label := fmt.Sprintf("FPS: %.1f", fps)
	if edges {
		label += " | edges"
	}
	gocv.PutText(bgr, label, image.Pt(10, 24), gocv.FontHersheyPlain, 1.4, color.RGBA{0, 255, 0, 0}, 2)

	window.IMShow(*bgr)
	return nil
}
