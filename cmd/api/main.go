package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/config"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/chart"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/coverage"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/database"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/handlers"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/repositories"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/services"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/utils"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger()
	log.Printf("🚀 Starting salesmart-api on port %s", cfg.Port)

	// Init database
	db, err := database.NewDB(cfg.StorePath)
	if err != nil {
		log.Fatalf("❌ Failed to open sales mart at %s: %v (run cmd/datamart first)", cfg.StorePath, err)
	}
	defer db.Close()

	// Init NL resolver
	nlService, err := llm.NewService()
	if err != nil {
		log.Fatalf("❌ Failed to init LLM provider: %v", err)
	}

	// Init pipeline
	engine := repositories.NewQueryEngine(db.GORM)
	guard := coverage.NewGuard(engine)
	insightRepo := repositories.NewInsightRepo(db.GORM)
	chartStore := chart.NewStore(cfg.ArtifactsDir)
	askService := services.NewAskService(engine, guard, nlService, insightRepo, chartStore)

	// Init handlers
	askHandler := handlers.NewAskHandler(askService)
	healthHandler := handlers.NewHealthHandler(nlService)
	coverageHandler := handlers.NewCoverageHandler(guard)
	historyHandler := handlers.NewHistoryHandler(insightRepo)
	exportHandler := handlers.NewExportHandler(askService, export.NewService())

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "SalesMart Insight API",
	})

	// Middleware
	app.Use(cors.New())

	// Routes
	app.Get("/health", healthHandler.GetHealth)
	app.Get("/coverage", coverageHandler.GetCoverage)
	app.Get("/insights", historyHandler.GetRecent)
	app.Post("/ask", askHandler.Ask)
	app.Post("/ask/export", exportHandler.Export)

	// Persisted chart payloads
	app.Static("/static", cfg.ArtifactsDir)

	log.Printf("✅ salesmart-api running at :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
