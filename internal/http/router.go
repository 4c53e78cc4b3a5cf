package http

import (
	"time"

	"github.com/gatherly/backend/internal/config"
	"github.com/gatherly/backend/internal/http/handlers"
	"github.com/gatherly/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
	expenseHandler *handlers.ExpenseHandler,
	chatHandler *handlers.ChatHandler,
	settlementHandler *handlers.SettlementHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Rate-limited endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)
	protected.Post("/me/ping", userHandler.Ping)

	// Events
	protected.Post("/events", eventHandler.CreateEvent)
	protected.Get("/events", eventHandler.ListMyEvents)
	protected.Get("/events/:id", eventHandler.GetEvent)
	protected.Post("/events/:id/members", eventHandler.InviteMember)
	protected.Get("/events/:id/members", eventHandler.ListMembers)

	// Expenses & balances
	protected.Post("/events/:id/expenses", expenseHandler.AddExpense)
	protected.Get("/events/:id/expenses", expenseHandler.ListExpenses)
	protected.Get("/events/:id/balances", expenseHandler.GetBalances)

	// Chat
	protected.Post("/events/:id/messages", chatHandler.PostMessage)
	protected.Get("/events/:id/messages", chatHandler.ListMessages)

	// Settlements
	protected.Post("/settlements", settlementHandler.ConfirmPayment)
	protected.Post("/settlements/:id/confirm-receipt", settlementHandler.ConfirmReceipt)
	protected.Get("/settlements/my", settlementHandler.ListMySettlements)
	protected.Get("/events/:id/settlements", settlementHandler.ListEventSettlements)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
