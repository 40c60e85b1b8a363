package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/steeple/steeple/pkg/api/routes"
	"github.com/steeple/steeple/pkg/tokens"
)

type Server struct {
	Store    tokens.Store
	Verifier TokenVerifier

	// Reports whether the backing database is reachable
	HealthCheck func(ctx context.Context) error
}

func (s *Server) App() *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	webApp.Get("/version", routes.APIVersion)
	webApp.Get("/health", routes.Health(s.HealthCheck))
	webApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.AccountRouter(webApp.Group("/account", EnsureValidToken(s.Verifier)), s.Store)

	return webApp
}

func (s *Server) Listen(listen string) error {
	return s.App().Listen(listen)
}
