package main

import (
	"context"
	"log"

	"hoaxlens/adapters/fetch"
	"hoaxlens/adapters/llm"
	"hoaxlens/adapters/postgres"
	"hoaxlens/adapters/render"
	"hoaxlens/adapters/search"
	"hoaxlens/internal/analysis"
	"hoaxlens/internal/botdetect"
	"hoaxlens/internal/config"
	"hoaxlens/internal/errors"
	"hoaxlens/internal/hoax"
	"hoaxlens/internal/migration"
	"hoaxlens/internal/network"
	"hoaxlens/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and runs schema migrations.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	// Collaborator adapters. The reasoning client is optional: without an
	// API key the hoax engine runs on its rule-based path.
	var hoaxEngine *hoax.Engine
	if appConfig.AI.OpenAIKey != "" {
		reasoning, err := llm.NewOpenAIClient(llm.Config{
			APIKey:      appConfig.AI.OpenAIKey,
			Model:       appConfig.AI.OpenAIModel,
			MaxTokens:   appConfig.AI.MaxTokens,
			Temperature: appConfig.AI.Temperature,
			Timeout:     appConfig.AI.Timeout,
		})
		if err != nil {
			log.Fatalf("Failed to build reasoning client: %v", err)
		}
		hoaxEngine = hoax.NewEngine(reasoning, appConfig.Analysis.HoaxThreshold, appConfig.AI.SystemContext)
	} else {
		log.Println("OPENAI_API_KEY not set, content scoring falls back to keyword rules")
		hoaxEngine = hoax.NewEngine(nil, appConfig.Analysis.HoaxThreshold, appConfig.AI.SystemContext)
	}

	fetcher := fetch.NewClient(fetch.Config{
		BearerToken: appConfig.Fetch.BearerToken,
		UseRealAPI:  appConfig.Fetch.UseRealAPI,
		Timeout:     appConfig.Fetch.Timeout,
	})
	searcher := search.NewBraveClient(search.Config{
		APIKey:     appConfig.Search.BraveKey,
		UseRealAPI: appConfig.Search.UseRealAPI,
		Timeout:    appConfig.Search.Timeout,
	})
	renderer, err := render.NewRenderer(appConfig.Paths.ReportsDir, appConfig.Paths.VisualizationsDir)
	if err != nil {
		log.Fatalf("Failed to prepare artifact directories: %v", err)
	}

	orchestrator := analysis.NewOrchestrator(
		fetcher,
		hoaxEngine,
		botdetect.NewEngine(appConfig.Analysis.BotThreshold),
		network.NewAnalyzer(),
		searcher,
		renderer,
		postgres.NewSessionRepository(db),
		postgres.NewAnalysisRepository(db),
	)

	gin.SetMode(appConfig.Server.GinMode)
	server := ui.NewServer(orchestrator)
	if err := server.Run(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
