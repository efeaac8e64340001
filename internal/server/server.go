// Package server exposes a layout session over HTTP.
package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/encoder"
	"github.com/AnyUserName/spritesheet-cli/internal/render"
)

// DefaultBodyLimit caps upload requests.
const DefaultBodyLimit = 256 << 20

// Config configures a Server.
type Config struct {
	Name      string // export base name
	Options   atlas.Options
	Quality   float64
	BodyLimit int
}

// Server owns one session. Handlers serialise on mu; the session itself is
// not safe for concurrent use.
type Server struct {
	cfg      Config
	renderer *render.Renderer
	registry *encoder.Registry

	mu      sync.Mutex
	session *atlas.Session
	encoded encodedAtlas
	// notice is set when the requested format has no installed encoder.
	notice string

	app *fiber.App
}

// encodedAtlas is the last encoded bitmap, valid for one session revision.
type encodedAtlas struct {
	rev  uint64
	plan atlas.ExportPlan
	data []byte
}

// New validates cfg, negotiates the output format with registry and
// registers the routes.
func New(cfg Config, renderer *render.Renderer, registry *encoder.Registry) (*Server, error) {
	if cfg.Quality == 0 {
		cfg.Quality = atlas.DefaultQuality
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	s := &Server{cfg: cfg, renderer: renderer, registry: registry}

	cfg.Options.Format = s.negotiate(cfg.Options.Format)
	session, err := atlas.NewSession(cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s.session = session

	s.app = fiber.New(fiber.Config{
		AppName:               "spritesheet",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestLogger)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Post("/images", s.addImages)
	s.app.Delete("/images", s.clear)
	s.app.Delete("/images/:name", s.removeImage)
	s.app.Put("/scale/:value", s.setScale)
	s.app.Put("/height/:value", s.setHeight)
	s.app.Put("/format/:format", s.setFormat)
	s.app.Get("/layout", s.getLayout)
	s.app.Get("/atlas", s.getAtlas)
	s.app.Get("/table", s.getTable)
	s.app.Get("/code", s.getCode)
	s.app.Get("/code/alt", s.getAltCode)
	s.app.Get("/positions", s.getPositions)
}

// App returns the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Info().Str("addr", addr).Str("encoders", s.registry.String()).Msg("serving")
	return s.app.Listen(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// AddImages feeds an already decoded batch into the session, as the
// watcher does.
func (s *Server) AddImages(images ...atlas.SourceImage) atlas.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.AddImages(images...)
}

func (s *Server) negotiate(requested atlas.Format) atlas.Format {
	f, ok := s.registry.Negotiate(requested)
	if ok {
		s.notice = ""
		return f
	}
	s.notice = fmt.Sprintf("no %s encoder installed; exporting as %s.", requested, f)
	log.Warn().Str("requested", requested.String()).Str("format", f.String()).Msg("format unavailable")
	return f
}

// errorHandler renders every error as {"error": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func parseScale(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("scale %q: not a number", raw)
	}
	return v, nil
}

func unescape(raw string) string {
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
