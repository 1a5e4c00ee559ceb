package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/template/html/v2"

	"feeportal_backend/internals/configs"
	database "feeportal_backend/internals/databases"
	receiptService "feeportal_backend/internals/features/finance/receipts/service"
	scheduler "feeportal_backend/internals/features/users/auth/scheduler"
	"feeportal_backend/internals/helpers/livequery"
	middlewares "feeportal_backend/internals/middlewares"
	routes "feeportal_backend/internals/route"
	seeds "feeportal_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		Views:                   engine,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	app.Use(middlewares.RequestContextMiddleware())

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	database.AutoMigrate()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	receiptService.SeedCounter(bootCtx, database.DB, time.Now())
	bootCancel()

	if configs.GetEnv("RUN_SEEDS", "false") == "true" {
		seeds.RunAllSeeds(database.DB)
	}

	scheduler.StartBlacklistCleanup(database.DB)

	broker := livequery.NewBroker()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	routes.SetupRoutes(app, database.DB, broker)

	app.Server().ReadTimeout = 15 * time.Second
	// long enough for the dashboard event stream
	app.Server().WriteTimeout = 0
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	broker.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
