package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Giri-Aayush/fitochain-faucet/internal/models"
)

const unavailableMessage = "The faucet is temporarily unavailable due to a server configuration error."

func setupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	// Public faucet API, browsers and the CLI call it from anywhere
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
}

// SetupRoutes sets up all API routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	setupMiddleware(app)

	app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))

	api := app.Group("/api")

	api.Get("/health", handler.Health)

	// Faucet
	api.Get("/captcha-question", handler.GetCaptchaQuestion)
	api.Post("/request-tokens", handler.RequestTokens)
	api.Get("/status/:address", handler.GetStatus)
	api.Get("/info", handler.GetInfo)

	// Developer assistant
	api.Post("/explain-tx", handler.ExplainTx)
	api.Post("/analyze-contract", handler.AnalyzeContract)
	api.Post("/chat", handler.Chat)
}

// SetupUnavailableRoutes serves a server whose configuration failed to load.
// Health reports the startup error and every other route answers 503.
func SetupUnavailableRoutes(app *fiber.App, initErr error) {
	setupMiddleware(app)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.HealthResponse{
			Status:    "error",
			Message:   initErr.Error(),
			Timestamp: time.Now().UnixMilli(),
		})
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Message: unavailableMessage,
		})
	})
}
