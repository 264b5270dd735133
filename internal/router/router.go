package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lentera-go-api/internal/config"
	"github.com/noah-isme/lentera-go-api/internal/handler"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	ModuleHandler     *handler.ModuleHandler
	SubmissionHandler *handler.SubmissionHandler
	DiscussionHandler *handler.DiscussionHandler
	Authenticate      fiber.Handler
	AuthLimiter       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	authenticate := deps.Authenticate
	if authenticate == nil {
		authenticate = func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := deps.AuthLimiter
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(app.Group("/api/admin"), models.RoleAdmin, limiter, authenticate)
		deps.AuthHandler.Register(app.Group("/api/instructor"), models.RoleInstructor, limiter, authenticate)
		deps.AuthHandler.Register(app.Group("/api/student"), models.RoleStudent, limiter, authenticate)
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(app.Group("/api/course"), authenticate)
	}

	if deps.ModuleHandler != nil {
		deps.ModuleHandler.Register(app.Group("/api/module"), authenticate)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(app.Group("/api"), authenticate)
	}

	if deps.DiscussionHandler != nil {
		deps.DiscussionHandler.Register(app.Group("/api/discussion"), authenticate)
	}
}
