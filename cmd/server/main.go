package main

import (
	"fmt"
	"log"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/config"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/docstructure"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/docstructure/docjson"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/docstructure/pdflayout"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/handler"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/repository/postgres"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/router"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	snapshotRepo := postgres.NewGraphSnapshotRepo(db)

	// Initialize document structure providers
	provider := docstructure.NewRouter(pdflayout.NewExtractor(), docjson.NewDecoder())

	// Initialize services
	extractionSvc := service.NewExtractionService(provider, nil, nil, service.ExtractionConfig{
		Concurrency:  cfg.Pipeline.Concurrency,
		MaxSentences: cfg.Pipeline.MaxSentences,
		MaxChars:     cfg.Pipeline.MaxChars,
	})
	graphSvc := service.NewGraphService(snapshotRepo, nil)

	// Initialize handlers
	docH := handler.NewDocumentHandler(extractionSvc, cfg.Pipeline.MaxFileSizeMB)
	graphH := handler.NewGraphHandler(graphSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(docH, graphH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
