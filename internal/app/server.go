package app

import (
	"quizforge/internal/handler"
	"quizforge/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// NewServer builds the Fiber app with every API route mounted under /api.
func NewServer(c *Container) *fiber.App {
	srv := fiber.New(fiber.Config{
		AppName:      "quizforge",
		ReadTimeout:  c.Config.Server.ReadTimeout,
		WriteTimeout: c.Config.Server.WriteTimeout,
		IdleTimeout:  c.Config.Server.ReadTimeout,
		BodyLimit:    c.Config.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	srv.Use(recover.New())
	srv.Use(middleware.RequestLogger())
	srv.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))

	srv.Get("/swagger/*", swagger.HandlerDefault)
	srv.Get("/healthz", func(ctx *fiber.Ctx) error {
		if err := c.DB.PingContext(ctx.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	handler.RegisterRoutes(srv.Group("/api"), handler.Handlers{
		Quiz:    handler.NewQuizHandler(c.Quizzes, c.Validator),
		Session: handler.NewSessionHandler(c.Sessions, c.Analysis, c.Validator),
		Study:   handler.NewStudyHandler(c.Study, c.Validator),
	}, middleware.NewValidationMiddleware(c.Validator))
	return srv
}
