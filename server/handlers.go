package server

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-edgecam/encode"
	"github.com/nvr-ai/go-edgecam/frame"
	"github.com/nvr-ai/go-edgecam/images"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps processor errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, frame.ErrUnsupportedDimensions), errors.Is(err, encode.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, frame.ErrInvalidFrameSize):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleSizes lists known camera sizes and the preview size the server
// would pick from them.
func (s *Server) handleSizes(c *fiber.Ctx) error {
	all := images.GetAllResolutions()
	return c.JSON(fiber.Map{
		"resolutions": all,
		"preview":     images.ChoosePreviewSize(images.Sizes(all), s.cfg.Preview.Width, s.cfg.Preview.Height),
	})
}

// handleProcessFrame converts the NV21 request body and returns RGBA bytes
// or an encoded image.
func (s *Server) handleProcessFrame(c *fiber.Ctx) error {
	width := c.QueryInt("width")
	height := c.QueryInt("height")
	edges := c.QueryBool("edges")

	format, err := encode.ParseFormat(c.Query("format", string(encode.Raw)))
	if err != nil {
		return err
	}

	out, err := s.proc.ProcessFrame(images.Image{
		Format: images.FormatNV21,
		Data:   c.Body(),
		Width:  width,
		Height: height,
	}, edges)
	if err != nil {
		return err
	}

	c.Set("X-Frame-Width", strconv.Itoa(out.Width))
	c.Set("X-Frame-Height", strconv.Itoa(out.Height))
	c.Set("X-Show-Edges", strconv.FormatBool(edges))
	c.Set(fiber.HeaderContentType, format.ContentType())

	if format == encode.Raw {
		return c.Send(out.Data)
	}

	img, err := images.ToRGBAImage(out.Data, out.Width, out.Height)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := encode.Encode(&buf, img, format); err != nil {
		return err
	}
	return c.Send(buf.Bytes())
}

// handleFramesWS processes a stream of binary NV21 messages on one
// connection. Text messages control the edge toggle; errors are reported as
// JSON text messages and do not close the connection.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))
	edges, _ := strconv.ParseBool(c.Query("edges", "false"))

	log := s.logger.With("remote", c.RemoteAddr().String(), "width", width, "height", height)
	log.Info("frame stream opened")
	defer log.Info("frame stream closed")

	for {
		mt, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		switch mt {
		case websocket.TextMessage:
			edges = applyEdgeCommand(edges, string(msg))
			if err := c.WriteJSON(fiber.Map{"edges": edges}); err != nil {
				return
			}

		case websocket.BinaryMessage:
			out, err := s.proc.ProcessFrame(images.Image{
				Format: images.FormatNV21,
				Data:   msg,
				Width:  width,
				Height: height,
			}, edges)
			if err != nil {
				log.Debug("frame rejected", "error", err)
				if err := c.WriteJSON(errorResponse{Error: err.Error()}); err != nil {
					return
				}
				continue
			}
			if err := c.WriteMessage(websocket.BinaryMessage, out.Data); err != nil {
				return
			}
		}
	}
}

// applyEdgeCommand understands "edges:on", "edges:off" and "edges:toggle".
// Unknown commands leave the toggle unchanged.
func applyEdgeCommand(current bool, cmd string) bool {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "edges:on":
		return true
	case "edges:off":
		return false
	case "edges:toggle":
		return !current
	default:
		return current
	}
}
