package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gatherly/backend/internal/config"
	"github.com/gatherly/backend/internal/db"
	"github.com/gatherly/backend/internal/events"
	apphttp "github.com/gatherly/backend/internal/http"
	"github.com/gatherly/backend/internal/http/handlers"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	eventRepo := repositories.NewEventRepo(pool)
	expenseRepo := repositories.NewExpenseRepo(pool)
	messageRepo := repositories.NewMessageRepo(pool)
	settlementRepo := repositories.NewSettlementRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	unfurler := services.NewUnfurler(cfg.UnfurlTimeoutMS, cfg.UnfurlMaxRetries, log)
	settlementService := services.NewSettlementService(settlementRepo, auditRepo, publisher, log)
	eventService := services.NewEventService(eventRepo, userRepo, auditRepo, publisher, log)
	expenseService := services.NewExpenseService(expenseRepo, eventRepo, settlementRepo, auditRepo, publisher, log)
	chatService := services.NewChatService(messageRepo, eventRepo, unfurler, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, log)
	eventHandler := handlers.NewEventHandler(eventService, log)
	expenseHandler := handlers.NewExpenseHandler(expenseService, log)
	chatHandler := handlers.NewChatHandler(chatService, log)
	settlementHandler := handlers.NewSettlementHandler(settlementService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, eventHandler, expenseHandler, chatHandler, settlementHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
