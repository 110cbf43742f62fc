package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"guild-rank-system/handlers"
	"guild-rank-system/hypixel"
	"guild-rank-system/inventory"
	"guild-rank-system/middleware"
	"guild-rank-system/models"
	"guild-rank-system/requirements"
	"guild-rank-system/services"
	"guild-rank-system/utils"
	"guild-rank-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// drainInterval is how often the report queue processes one roster
// member; it doubles as the external API rate limit.
const drainInterval = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// Only the Discord bot talks to this service.
	app.Use(middleware.BotAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	apiToken := os.Getenv("HYPIXEL_API_TOKEN")
	if apiToken == "" {
		log.Fatal("HYPIXEL_API_TOKEN environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Guild{},
		&models.Report{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	api := hypixel.NewClient(os.Getenv("HYPIXEL_API_URL"), apiToken)
	registry := requirements.NewRegistry(inventory.NewNBTDecoder())

	guildService := services.NewGuildService(db)
	reportService := services.NewReportService(db, api, registry, guildService)

	archiveEnabled, err := utils.InitArchive()
	if err != nil {
		log.Fatal("failed to initialize report archive:", err)
	}
	if archiveEnabled {
		reportService.Archive = utils.UploadReportArchive
	}

	if err := reportService.ResumeUnfinishedReports(); err != nil {
		log.Fatal("failed to resume unfinished reports:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.StartReportQueueWorker(ctx, reportService, drainInterval)

	handlers.SetupRequirementRoutes(app, guildService, registry, api)
	handlers.SetupReportRoutes(app, reportService, guildService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ BotAuthMiddleware enforced globally — all requests must come from the bot")
	if archiveEnabled {
		log.Println("✅ Finished reports are archived to R2")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
