// Package server exposes consolidated timetables over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/javiermolinar/horario/internal/debuglog"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/pipeline"
	"github.com/javiermolinar/horario/internal/scheduling"
	"github.com/javiermolinar/horario/internal/timetable"
)

// DefaultAddr is used when no listen address is configured.
const DefaultAddr = "127.0.0.1:8080"

// Service is the part of the pipeline the HTTP handlers need.
type Service interface {
	Resolve(ctx context.Context, key string) (*pipeline.Result, error)
	Regenerate(ctx context.Context, key string) (*pipeline.Result, error)
	Invalidate(ctx context.Context, key string)
}

// Options configures a Server.
type Options struct {
	Title     string
	WeekStart time.Time
	Log       *debuglog.Logger
	Now       func() time.Time
	// AccessLog enables echo's request logger on stdout.
	AccessLog bool
}

// Server routes timetable requests to the pipeline.
type Server struct {
	echo      *echo.Echo
	svc       Service
	title     string
	weekStart time.Time
	log       *debuglog.Logger
	now       func() time.Time
}

// New creates a server with every route registered.
func New(svc Service, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if opts.AccessLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		svc:       svc,
		title:     opts.Title,
		weekStart: opts.WeekStart,
		log:       opts.Log,
		now:       opts.Now,
	}
	if s.title == "" {
		s.title = export.DefaultTitle
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api/timetables/:id")
	api.GET("/grid", s.grid)
	api.POST("/generate", s.generate)
	api.DELETE("/cache", s.invalidate)
	api.GET("/export/:format", s.export)

	s.echo.GET("/timetables/:id", s.page)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	s.log.Event("SERVER_START", map[string]any{"addr": addr})
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving on %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) grid(c echo.Context) error {
	res, err := s.svc.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	filter := filterFromQuery(c)
	return c.JSON(http.StatusOK, newGridResponse(res, filter, res.View(filter)))
}

func (s *Server) generate(c echo.Context) error {
	res, err := s.svc.Regenerate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	filter := timetable.NewFilter(timetable.All, timetable.All)
	return c.JSON(http.StatusOK, newGridResponse(res, filter, res.View(filter)))
}

func (s *Server) invalidate(c echo.Context) error {
	key := c.Param("id")
	s.svc.Invalidate(c.Request().Context(), key)
	s.log.Event("HTTP_INVALIDATE", map[string]any{"timetable": key})
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) export(c echo.Context) error {
	exp, err := export.ByName(c.Param("format"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	body, doc, err := s.render(c, exp)
	if err != nil {
		return s.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename(exp, doc.Filter, doc.GeneratedAt)))
	return c.Blob(http.StatusOK, exp.ContentType(), body)
}

func (s *Server) page(c echo.Context) error {
	body, _, err := s.render(c, export.HTML{})
	if err != nil {
		return s.fail(c, err)
	}
	return c.HTMLBlob(http.StatusOK, body)
}

// render resolves the timetable for the request and runs one exporter.
func (s *Server) render(c echo.Context, exp export.Exporter) ([]byte, export.Document, error) {
	res, err := s.svc.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, export.Document{}, err
	}
	filter := filterFromQuery(c)
	doc := export.Document{
		Title:       s.title,
		Grid:        res.View(filter),
		Filter:      filter,
		GeneratedAt: s.now(),
		WeekStart:   s.weekStart,
	}
	var buf bytes.Buffer
	if err := export.Render(exp, &buf, doc); err != nil {
		return nil, doc, err
	}
	s.log.Event("HTTP_EXPORT", map[string]any{
		"timetable": res.TimetableKey,
		"format":    exp.Name(),
		"bytes":     buf.Len(),
	})
	return buf.Bytes(), doc, nil
}

// fail maps pipeline errors to status codes. Export failures stay 500.
func (s *Server) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrMissingKey):
		status = http.StatusBadRequest
	case errors.Is(err, scheduling.ErrGenerationFailed):
		status = http.StatusBadGateway
	}
	s.log.Error("HTTP_ERROR", err, map[string]any{
		"path":   c.Request().URL.Path,
		"status": status,
	})
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func filterFromQuery(c echo.Context) timetable.Filter {
	return timetable.NewFilter(c.QueryParam("instructor"), c.QueryParam("room"))
}
