package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pncpbot/backend/config"
	httpDelivery "github.com/pncpbot/backend/internal/delivery/http"
	"github.com/pncpbot/backend/internal/domain"
	"github.com/pncpbot/backend/internal/infrastructure/capture"
	"github.com/pncpbot/backend/internal/infrastructure/export"
	"github.com/pncpbot/backend/internal/infrastructure/pncp"
	"github.com/pncpbot/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PNCP Bot Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("PNCP API: %s (rate limit %.1fs)", cfg.PNCP.BaseURL, cfg.PNCP.RateLimit)

	debug := cfg.Server.Environment == "development"
	if debug {
		log.Printf("PNCP client debug mode enabled")
	}

	// Each run gets its own client so rate limiting stays per-run
	clientFactory := func(rateLimit float64) domain.ProcurementClient {
		if rateLimit <= 0 {
			rateLimit = cfg.PNCP.RateLimit
		}
		client := pncp.NewClient(pncp.ClientConfig{
			BaseURL:        cfg.PNCP.BaseURL,
			UserAgent:      cfg.PNCP.UserAgent,
			SearchPageSize: cfg.PNCP.SearchPageSize,
			ItemsPageSize:  cfg.PNCP.ItemsPageSize,
			MaxRetries:     cfg.PNCP.MaxRetries,
			BackoffBase:    cfg.PNCP.BackoffBase,
			RateLimit:      rateLimit,
			Timeout:        cfg.PNCP.Timeout,
		})
		client.SetDebug(debug)
		return client
	}

	exporter := export.NewFileExporter()

	// Initialize usecase layer
	extractionService := usecase.NewExtractionService(
		clientFactory,
		exporter,
		capture.NewCapturer(),
		usecase.ExtractionServiceConfig{
			PortalURL:             cfg.PNCP.PortalURL,
			DefaultMaxProcesses:   cfg.Extraction.MaxProcesses,
			DefaultFuzzyThreshold: cfg.Extraction.FuzzyThreshold,
			DefaultOutputDir:      cfg.Extraction.OutputDir,
		},
	)

	// Create HTTP handler with dependencies
	jobs := httpDelivery.NewJobStore(cfg.Server.JobTTL)
	handler := httpDelivery.NewHandler(extractionService, exporter, jobs, cfg.Extraction.OutputDir)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
