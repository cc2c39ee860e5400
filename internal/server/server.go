// Package server exposes a texture library over HTTP: entries, planned
// layouts, recorded upload batches and PNG previews of individual levels.
package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/EchoTools/ddsgpu/internal/device/memdev"
	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/library"
	"github.com/EchoTools/ddsgpu/pkg/preview"
	"github.com/EchoTools/ddsgpu/pkg/texture"
	"github.com/EchoTools/ddsgpu/pkg/upload"
)

// DefaultPreviewSize bounds the longer side of preview images.
const DefaultPreviewSize = 256

type Server struct {
	lib         *library.Library
	log         logger.Logger
	previewSize int
}

type Option func(*Server)

func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithPreviewSize sets the default bound for previews. Requests may ask for
// smaller images with ?max=.
func WithPreviewSize(n int) Option {
	return func(s *Server) {
		s.previewSize = n
	}
}

func New(lib *library.Library, opts ...Option) *Server {
	s := &Server{
		lib:         lib,
		log:         logger.Discard(),
		previewSize: DefaultPreviewSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds the API routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/api/textures", s.handleList)
	e.GET("/api/textures/:id", s.handleTexture)
	e.GET("/api/textures/:id/uploads", s.handleUploads)
	e.GET("/api/textures/:id/levels/:level/preview.png", s.handlePreview)
	e.GET("/api/files.js", s.handleModule)
}

// NewEcho returns an echo instance with recovery, request logging and the
// API routes.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	s.Register(e)
	return e
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.JSONBlob(status, b)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, map[string]any{
		"error": apiError{Message: msg, Type: errType},
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

// writeDecodeError maps texture and library errors to a response.
func (s *Server) writeDecodeError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, library.ErrNotFound),
		errors.Is(err, preview.ErrFaceOutOfRange),
		errors.Is(err, preview.ErrLevelOutOfRange):
		return writeNotFound(c, err.Error())
	case errors.Is(err, texture.ErrMalformedHeader),
		errors.Is(err, texture.ErrTruncatedData):
		return writeError(c, http.StatusUnprocessableEntity, "texture_error", err.Error())
	default:
		s.log.Error("request failed", "path", c.Request().URL.Path, "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func (s *Server) entry(c *echo.Context) (library.Entry, bool) {
	return s.lib.LookupID(c.Param("id"))
}

func srgbParam(c *echo.Context) (bool, error) {
	v := c.QueryParam("srgb")
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) handleList(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]any{
		"root":     s.lib.Root(),
		"textures": s.lib.Entries(),
	})
}

func (s *Server) handleModule(c *echo.Context) error {
	var buf bytes.Buffer
	if err := s.lib.WriteModule(&buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/javascript; charset=utf-8", buf.Bytes())
}

type levelJSON struct {
	Level  int `json:"level"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Offset int `json:"offset"`
	Size   int `json:"size"`
}

type faceJSON struct {
	Index  int         `json:"index"`
	Name   string      `json:"name"`
	Levels []levelJSON `json:"levels"`
}

type layoutJSON struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Depth      int        `json:"depth"`
	LevelCount int        `json:"levelCount"`
	Format     string     `json:"format"`
	Cubemap    bool       `json:"cubemap"`
	DataOffset int        `json:"dataOffset"`
	DataEnd    int        `json:"dataEnd"`
	Faces      []faceJSON `json:"faces"`
}

func newLayoutJSON(l *texture.Layout) layoutJSON {
	out := layoutJSON{
		Width:      l.Width,
		Height:     l.Height,
		Depth:      l.Depth,
		LevelCount: l.LevelCount,
		Format:     l.Format.String(),
		Cubemap:    l.Cubemap,
		DataOffset: l.DataOffset,
		DataEnd:    l.DataEnd,
		Faces:      make([]faceJSON, len(l.Faces)),
	}
	for i, f := range l.Faces {
		face := faceJSON{Index: f.Index, Levels: make([]levelJSON, len(f.Levels))}
		if l.Cubemap {
			face.Name = texture.CubeFace(f.Index).String()
		}
		for j, m := range f.Levels {
			face.Levels[j] = levelJSON{Level: m.Level, Width: m.Width, Height: m.Height, Offset: m.Offset, Size: len(m.Data)}
		}
		out.Faces[i] = face
	}
	return out
}

func (s *Server) layout(c *echo.Context) (library.Entry, *texture.Layout, error) {
	e, ok := s.entry(c)
	if !ok {
		return library.Entry{}, nil, library.ErrNotFound
	}
	srgb, err := srgbParam(c)
	if err != nil {
		return e, nil, errBadParam{"srgb", err}
	}
	l, err := s.lib.Layout(e.Name, srgb)
	return e, l, err
}

type errBadParam struct {
	name string
	err  error
}

func (e errBadParam) Error() string { return "invalid " + e.name + ": " + e.err.Error() }

func (s *Server) fail(c *echo.Context, err error) error {
	var bad errBadParam
	if errors.As(err, &bad) {
		return writeBadRequest(c, bad.Error())
	}
	return s.writeDecodeError(c, err)
}

func (s *Server) handleTexture(c *echo.Context) error {
	e, l, err := s.layout(c)
	if err != nil {
		return s.fail(c, err)
	}
	return writeJSON(c, http.StatusOK, map[string]any{
		"entry":  e,
		"layout": newLayoutJSON(l),
	})
}

type copyJSON struct {
	Level       int    `json:"level"`
	BytesPerRow int    `json:"bytesPerRow"`
	Extent      [3]int `json:"extent"`
	Bytes       int    `json:"bytes"`
	Padded      bool   `json:"padded"`
}

// handleUploads performs the upload against a recording device and reports
// the texture it created and the batch it received.
func (s *Server) handleUploads(c *echo.Context) error {
	e, l, err := s.layout(c)
	if err != nil {
		return s.fail(c, err)
	}

	dev := memdev.New()
	handle, err := upload.Upload(dev, l, upload.WithLabel(e.Name), upload.WithLogger(s.log))
	if err != nil {
		return s.writeDecodeError(c, err)
	}
	tex := handle.(*memdev.Texture)

	instructions := upload.Plan(l)
	batch := dev.Batches()[0]
	copies := make([]copyJSON, len(batch.Copies))
	for i, cp := range batch.Copies {
		copies[i] = copyJSON{
			Level:       cp.MipLevel,
			BytesPerRow: cp.BytesPerRow,
			Extent:      [3]int{cp.Extent.Width, cp.Extent.Height, cp.Extent.DepthOrArrayLayers},
			Bytes:       len(tex.Levels[cp.MipLevel]),
			Padded:      instructions[i].Padded,
		}
	}

	d := tex.Descriptor
	return writeJSON(c, http.StatusOK, map[string]any{
		"texture": map[string]any{
			"label":         d.Label,
			"size":          [3]int{d.Size.Width, d.Size.Height, d.Size.DepthOrArrayLayers},
			"mipLevelCount": d.MipLevelCount,
			"format":        d.Format.String(),
			"usage":         uint32(d.Usage),
		},
		"copies":          copies,
		"releasedBuffers": dev.ReleasedBuffers(),
		"facesUploaded":   1,
		"facesStored":     len(l.Faces),
	})
}

func (s *Server) handlePreview(c *echo.Context) error {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		return writeBadRequest(c, "invalid level: "+c.Param("level"))
	}
	face, err := intParam(c.QueryParam("face"), 0)
	if err != nil {
		return writeBadRequest(c, "invalid face: "+err.Error())
	}
	maxSide, err := intParam(c.QueryParam("max"), s.previewSize)
	if err != nil || maxSide <= 0 {
		return writeBadRequest(c, "invalid max: "+c.QueryParam("max"))
	}
	maxSide = min(maxSide, s.previewSize)

	_, l, err := s.layout(c)
	if err != nil {
		return s.fail(c, err)
	}

	var buf bytes.Buffer
	if err := preview.WritePNG(&buf, l, face, level, maxSide); err != nil {
		return s.writeDecodeError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
