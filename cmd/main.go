package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"time"

	"stockgrow/config"
	"stockgrow/controllers"
	"stockgrow/database"
	"stockgrow/realtime"
	"stockgrow/routes"
	"stockgrow/services"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var requestCount uint64

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	_ = godotenv.Load()

	logger := config.NewLogger()
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetReportCaller(false)
	_ = logger

	cfg, err := config.Load("config.yml")
	if err != nil {
		logrus.Fatalf("❌ Failed to load config: %v", err)
	}

	// 1. Open the snapshot store on the configured backend
	logrus.Info("📦 Opening snapshot store...")
	var backend database.Backend
	switch cfg.Storage.Driver {
	case "postgres":
		pg, err := database.NewPgxBackend(context.Background(), cfg.PostgresDSN())
		if err != nil {
			logrus.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer pg.Close()
		backend = pg
	default:
		backend = database.NewFileBackend(cfg.Storage.File.Path)
	}

	store, err := database.Open(backend)
	if err != nil {
		logrus.Fatalf("❌ Failed to open store: %v", err)
	}
	logrus.Info("✅ Store ready")

	// 2. Initialize services
	logrus.Info("📦 Initializing services...")
	ledger := services.NewLedgerService(store)
	game := services.NewGameService(store)
	support := services.NewSupportService(store)
	accrual := services.NewAccrualService(store)

	var notifier services.Notifier
	if cfg.WhatsApp.Enabled {
		notifier = services.NewWhatsAppNotifier(cfg.WhatsApp.InstanceID, cfg.WhatsApp.Token)
	}
	otp := services.NewOTPService(store, notifier)

	var textgen services.TextGenerator
	if cfg.TextGen.APIKey != "" {
		textgen = services.NewGeminiClient(cfg.TextGen.APIKey, cfg.TextGen.Model)
	}

	controllers.Init(store, ledger, game, support, otp, textgen)
	logrus.Info("✅ Services initialized successfully")

	// 3. Daily plan accrual
	scheduler, err := accrual.StartScheduler()
	if err != nil {
		logrus.Fatalf("❌ Failed to start accrual scheduler: %v", err)
	}
	defer func() { _ = scheduler.Shutdown() }()

	// 4. Realtime socket server on its own port
	rtCtx, rtCancel := context.WithCancel(context.Background())
	defer rtCancel()
	rt := realtime.NewServer(store, ledger, game)
	go func() {
		if err := rt.Run(rtCtx, cfg.Server.SocketPort); err != nil {
			logrus.Errorf("❌ Socket server error: %v", err)
		}
	}()

	// 5. Fiber app
	app := fiber.New(fiber.Config{
		IdleTimeout:           60 * time.Second,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ReadBufferSize:        8192,
		WriteBufferSize:       8192,
		Concurrency:           256 * 1024,
		ServerHeader:          "Fiber",
		AppName:               "StockGrow API",
		EnablePrintRoutes:     false,
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: false,
	}))

	app.Use(fibercors.New(fibercors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type, Authorization",
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Sampled request logging: slow requests always, the rest 1 in 100.
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		atomic.AddUint64(&requestCount, 1)

		err := c.Next()

		duration := time.Since(start)
		currentCount := atomic.LoadUint64(&requestCount)
		if duration > 500*time.Millisecond || currentCount%100 == 0 {
			logrus.WithFields(logrus.Fields{
				"method":   c.Method(),
				"path":     c.Path(),
				"duration": duration.Milliseconds(),
				"status":   c.Response().StatusCode(),
				"ip":       c.IP(),
			}).Info("Request sampled")
		}

		return err
	})

	routes.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "StockGrow API",
			"timestamp": time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logrus.Infof("🚀 Starting server on %s...", addr)

	serverErr := make(chan error, 1)
	go func() {
		if err := app.Listen(addr); err != nil {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case <-quit:
		logrus.Info("🛑 Shutting down server...")
	case err := <-serverErr:
		logrus.Errorf("❌ Server error: %v", err)
	}

	rtCancel()
	if err := app.Shutdown(); err != nil {
		logrus.Errorf("❌ Error during shutdown: %v", err)
	}

	logrus.Info("✅ Server gracefully stopped")
}
