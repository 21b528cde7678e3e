// Package server exposes the aggregation operations as a JSON HTTP API.
//
// A failed operation answers with a JSON null body: 502 when an upstream
// call failed, 404 for tokens that cannot be served and 400 for missing
// parameters.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/justchokingaround/anistream/internal/aggregator"
	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/providers"
	"github.com/justchokingaround/anistream/internal/slug"
)

// Catalog is the set of aggregation operations served by the API.
// *aggregator.Service implements it.
type Catalog interface {
	Home(ctx context.Context) (*catalog.Response[[]catalog.AnimeResult], error)
	Search(ctx context.Context, query string, page int) (*catalog.Response[[]catalog.AnimeResult], error)
	Ongoing(ctx context.Context, page int) (*catalog.Response[[]catalog.AnimeResult], error)
	AnimeDetail(ctx context.Context, token string) (*catalog.Response[*catalog.AnimeDetail], error)
	Episode(ctx context.Context, token string) (*catalog.Response[*catalog.EpisodeDetail], error)
	Batch(ctx context.Context, token string) (*catalog.Response[*catalog.BatchDetail], error)
	ResolveServer(ctx context.Context, serverID string) (*catalog.Response[catalog.ServerLink], error)
}

// backend is swapped as a unit on config reload
type backend struct {
	catalog  Catalog
	registry *providers.Registry
}

// Server is the fiber application plus the swappable backend it serves
type Server struct {
	app     *fiber.App
	backend atomic.Pointer[backend]
	logger  *slog.Logger
}

// New creates a Server serving c. registry may be nil, in which case
// /api/health reports no providers.
func New(c Catalog, registry *providers.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "anistream",
			DisableStartupMessage: true,
		}),
		logger: logger,
	}
	s.Swap(c, registry)

	s.app.Use(recover.New())
	s.app.Use(requestLogger(logger))
	s.app.Use(cors.New())

	api := s.app.Group("/api")
	api.Get("/home", s.home)
	api.Get("/search", s.search)
	api.Get("/ongoing", s.ongoing)
	api.Get("/anime/:slug", s.anime)
	api.Get("/episode/:slug", s.episode)
	api.Get("/batch/:slug", s.batch)
	api.Get("/server", s.server)
	api.Get("/server/:serverId", s.server)
	api.Get("/health", s.health)

	return s
}

// Swap replaces the backend. Requests already in flight finish against the
// previous one.
func (s *Server) Swap(c Catalog, registry *providers.Registry) {
	s.backend.Store(&backend{catalog: c, registry: registry})
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("api server listening", "address", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) current() *backend {
	return s.backend.Load()
}

func (s *Server) home(c *fiber.Ctx) error {
	resp, err := s.current().catalog.Home(c.UserContext())
	return s.reply(c, resp, err)
}

func (s *Server) search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(nil)
	}

	resp, err := s.current().catalog.Search(c.UserContext(), query, page(c))
	return s.reply(c, resp, err)
}

func (s *Server) ongoing(c *fiber.Ctx) error {
	resp, err := s.current().catalog.Ongoing(c.UserContext(), page(c))
	return s.reply(c, resp, err)
}

func (s *Server) anime(c *fiber.Ctx) error {
	resp, err := s.current().catalog.AnimeDetail(c.UserContext(), param(c, "slug"))
	return s.reply(c, resp, err)
}

func (s *Server) episode(c *fiber.Ctx) error {
	resp, err := s.current().catalog.Episode(c.UserContext(), param(c, "slug"))
	return s.reply(c, resp, err)
}

func (s *Server) batch(c *fiber.Ctx) error {
	resp, err := s.current().catalog.Batch(c.UserContext(), param(c, "slug"))
	return s.reply(c, resp, err)
}

// server accepts the id as a path segment, or as ?id= for stream URLs that
// do not survive path routing
func (s *Server) server(c *fiber.Ctx) error {
	id := param(c, "serverId")
	if id == "" {
		id = c.Query("id")
	}
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(nil)
	}

	resp, err := s.current().catalog.ResolveServer(c.UserContext(), id)
	return s.reply(c, resp, err)
}

type healthResponse struct {
	Status    string                     `json:"status"`
	Providers []providers.ProviderStatus `json:"providers"`
}

func (s *Server) health(c *fiber.Ctx) error {
	registry := s.current().registry
	if registry == nil {
		return c.JSON(healthResponse{Status: "ok", Providers: []providers.ProviderStatus{}})
	}

	registry.CheckAllProviders(c.UserContext())

	out := healthResponse{Status: "ok", Providers: registry.GetProviderStatuses()}
	if !registry.Healthy() {
		out.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}

// reply writes resp, or a null body with the status matching err
func (s *Server) reply(c *fiber.Ctx, resp interface{}, err error) error {
	if err != nil {
		code := StatusFor(err)
		s.logger.Warn("request failed",
			"path", c.Path(),
			"status", code,
			"request_id", requestID(c),
			"error", err,
		)
		return c.Status(code).JSON(nil)
	}
	return c.JSON(resp)
}

// StatusFor maps an aggregation error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, aggregator.ErrTransport):
		return fiber.StatusBadGateway
	case errors.Is(err, slug.ErrUnrecognizedToken),
		errors.Is(err, aggregator.ErrUnsupported),
		errors.Is(err, aggregator.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func page(c *fiber.Ctx) int {
	p := c.QueryInt("page", 1)
	if p < 1 {
		return 1
	}
	return p
}

func param(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
