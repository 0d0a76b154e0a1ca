package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/price-watch/internal/bot"
	"github.com/foxxcyber/price-watch/internal/config"
	"github.com/foxxcyber/price-watch/internal/database"
	"github.com/foxxcyber/price-watch/internal/handlers"
	"github.com/foxxcyber/price-watch/internal/scraper"
	"github.com/foxxcyber/price-watch/internal/watch"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Fetch collaborator: URL -> Item via stored extraction rules
	fetcher := scraper.New(db)

	// Telegram bot
	b, err := bot.New(cfg.BotToken, db, db, fetcher, cfg.AdminChatID)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Periodic re-fetch of every tracked item
	refresher := watch.NewRefresher(db, fetcher, b, cfg.RefreshInterval)
	refresher.Start()
	defer refresher.Stop()

	// Health and stats endpoints
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	h := handlers.New(db, cfg)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/api/stats", h.GetStats)

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("Bot starting...")
	b.Start()
}
