package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/emitter"
	"github.com/AnyUserName/spritesheet-cli/internal/manifest"
	"github.com/AnyUserName/spritesheet-cli/internal/source"
)

// layoutResponse is the body of every state-changing request.
type layoutResponse struct {
	State    string             `json:"state"`
	Revision uint64             `json:"revision"`
	Summary  string             `json:"summary,omitempty"`
	Advisory string             `json:"advisory,omitempty"`
	Layout   *manifest.Manifest `json:"layout,omitempty"`
	Failed   []string           `json:"failed,omitempty"`
}

// snapshot describes the current layout. Callers hold mu.
func (s *Server) snapshot() layoutResponse {
	resp := layoutResponse{
		State:    s.session.State().String(),
		Revision: s.session.Revision(),
		Advisory: s.notice,
	}
	l, ok := s.session.Layout()
	if !ok {
		return resp
	}
	req := l.Request(s.cfg.Name)
	plan := s.plan(l)
	resp.Summary = l.Summary()
	if a := plan.Advisory(); a != "" {
		resp.Advisory = a
	}
	resp.Layout = manifest.FromLayout(l, req, plan)
	resp.Layout.ComputeStats()
	return resp
}

func (s *Server) plan(l atlas.Layout) atlas.ExportPlan {
	plan := atlas.PlanExport(l, l.Request(s.cfg.Name))
	plan.Quality = s.cfg.Quality
	return plan
}

func (s *Server) addImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(fmt.Errorf("multipart form: %w", err))
	}
	files := form.File["images"]
	if len(files) == 0 {
		return badRequest(errors.New("no files in field \"images\""))
	}

	var (
		images []atlas.SourceImage
		failed []string
	)
	for _, fh := range files {
		if !source.IsImage(fh.Filename) {
			failed = append(failed, fh.Filename)
			continue
		}
		data, err := readPart(fh)
		if err == nil {
			var img atlas.SourceImage
			img, err = source.Decode(fh.Filename, data)
			if err == nil {
				images = append(images, img)
				continue
			}
		}
		log.Warn().Err(err).Str("file", fh.Filename).Msg("skipping upload")
		failed = append(failed, fh.Filename)
	}
	if len(images) == 0 {
		return badRequest(fmt.Errorf("all %d uploads failed to decode", len(files)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AddImages(images...)
	resp := s.snapshot()
	resp.Failed = failed
	return c.JSON(resp)
}

func (s *Server) clear(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Clear()
	s.encoded = encodedAtlas{}
	return c.JSON(s.snapshot())
}

func (s *Server) removeImage(c *fiber.Ctx) error {
	name := unescape(c.Params("name"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, n := s.session.Remove(name); n == 0 {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("no image named %q", name))
	}
	return c.JSON(s.snapshot())
}

func (s *Server) setScale(c *fiber.Ctx) error {
	scale, err := parseScale(c.Params("value"))
	if err != nil {
		return badRequest(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.session.SetScale(scale); err != nil {
		return badRequest(err)
	}
	return c.JSON(s.snapshot())
}

func (s *Server) setHeight(c *fiber.Ctx) error {
	h, err := strconv.Atoi(c.Params("value"))
	if err != nil || h < 1 {
		return badRequest(fmt.Errorf("height %q: want a positive integer", c.Params("value")))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	scale, err := atlas.ScaleForHeight(s.session.Images(), h)
	if err != nil {
		return badRequest(err)
	}
	if _, err := s.session.SetScale(scale); err != nil {
		return badRequest(err)
	}
	return c.JSON(s.snapshot())
}

func (s *Server) setFormat(c *fiber.Ctx) error {
	f, err := atlas.ParseFormat(c.Params("format"))
	if err != nil {
		return badRequest(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.session.SetFormat(s.negotiate(f)); err != nil {
		return badRequest(err)
	}
	return c.JSON(s.snapshot())
}

func (s *Server) getLayout(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.snapshot())
}

func (s *Server) getAtlas(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.session.Layout()
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	rev := s.session.Revision()
	if s.encoded.data == nil || s.encoded.rev != rev {
		plan := s.plan(l)
		canvas, err := s.renderer.Render(l)
		if errors.Is(err, atlas.ErrEmptyCanvas) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		if err != nil {
			return fmt.Errorf("render atlas: %w", err)
		}
		data, err := s.registry.Encode(canvas, plan)
		if err != nil {
			return fmt.Errorf("encode atlas: %w", err)
		}
		s.encoded = encodedAtlas{rev: rev, plan: plan, data: data}
	}

	c.Set(fiber.HeaderContentType, s.encoded.plan.MediaType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", s.encoded.plan.Filename))
	return c.Send(s.encoded.data)
}

func (s *Server) getTable(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, _ := s.session.Layout()
	table, ok := emitter.Table(l, l.Request(s.cfg.Name))
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(table)
}

func (s *Server) getCode(c *fiber.Ctx) error {
	helper, _ := strconv.ParseBool(c.Query("helper"))
	return s.sendText(c, func(l atlas.Layout, req atlas.ExportRequest) string {
		return emitter.Snippet(l, req, emitter.SnippetOptions{Helper: helper})
	})
}

func (s *Server) getAltCode(c *fiber.Ctx) error {
	return s.sendText(c, emitter.AltTable)
}

func (s *Server) getPositions(c *fiber.Ctx) error {
	return s.sendText(c, func(l atlas.Layout, _ atlas.ExportRequest) string {
		return emitter.Positions(l)
	})
}

func (s *Server) sendText(c *fiber.Ctx, gen func(atlas.Layout, atlas.ExportRequest) string) error {
	s.mu.Lock()
	l, _ := s.session.Layout()
	text := gen(l, l.Request(s.cfg.Name))
	s.mu.Unlock()

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(text)
}
