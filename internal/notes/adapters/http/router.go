// Package http содержит компоненты для HTTP сервера.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"threadnotes/internal/notes/adapters/http/middleware"
	"threadnotes/internal/notes/adapters/http/notes"
	"threadnotes/internal/notes/ports/services"
)

const healthTimeout = 2 * time.Second

// HealthChecker проверяет доступность зависимостей.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SetupRouter настраивает маршрутизацию для HTTP сервера. metrics может быть nil.
func SetupRouter(
	app *fiber.App,
	notesService services.NoteService,
	tokenService services.TokenService,
	health HealthChecker,
	metrics *middleware.Metrics,
) {
	notesHandler := notes.NewHandler(notesService)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	if metrics != nil {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}

	app.Get("/health", healthHandler(health))

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Маршруты заметок (требуют авторизации).
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Use(middleware.NewAuthMiddleware(tokenService))
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Post("/reorder", notesHandler.ReorderNotes)
	notesRoutes.Get("/:note_id", notesHandler.GetNote)
	notesRoutes.Patch("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:note_id", notesHandler.DeleteNote)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}

func healthHandler(health HealthChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(middleware.RequestContext(c), healthTimeout)
		defer cancel()

		if err := health.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
