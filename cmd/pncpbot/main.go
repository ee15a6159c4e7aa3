package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/pncpbot/backend/config"
	"github.com/pncpbot/backend/internal/domain"
	"github.com/pncpbot/backend/internal/infrastructure/capture"
	"github.com/pncpbot/backend/internal/infrastructure/export"
	"github.com/pncpbot/backend/internal/infrastructure/pncp"
	"github.com/pncpbot/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var (
		keywords       = pflag.StringP("keywords", "k", "", `Comma-separated keywords with optional qualifiers, e.g. "cabo [vermelho], tomada [20a]"`)
		uf             = pflag.String("uf", "", "State code filter, e.g. BA")
		dateFrom       = pflag.String("date-from", "", "Start date YYYY-MM-DD")
		dateTo         = pflag.String("date-to", "", "End date YYYY-MM-DD")
		contratante    = pflag.String("contratante", "", "Filter by contracting entity name (substring)")
		status         = pflag.String("status", "", "Process status filter")
		maxProcesses   = pflag.Int("max-processes", cfg.Extraction.MaxProcesses, "Max processes to inspect")
		fuzzyThreshold = pflag.Int("fuzzy-threshold", cfg.Extraction.FuzzyThreshold, "Fuzzy matching threshold 0-100")
		rateLimit      = pflag.Float64("rate-limit", cfg.PNCP.RateLimit, "Seconds between API requests")
		outputDir      = pflag.StringP("output-dir", "o", cfg.Extraction.OutputDir, "Output directory")
		screenshots    = pflag.Bool("screenshots", false, "Capture screenshots per matched item")
		verbose        = pflag.BoolP("verbose", "v", false, "Debug logging")
	)
	pflag.Parse()

	if *keywords == "" {
		pflag.Usage()
		log.Fatal("--keywords is required")
	}
	if *uf != "" && !config.IsValidUF(*uf) {
		log.Fatalf("Unknown UF code: %s", *uf)
	}

	clientFactory := func(rl float64) domain.ProcurementClient {
		if rl <= 0 {
			rl = cfg.PNCP.RateLimit
		}
		client := pncp.NewClient(pncp.ClientConfig{
			BaseURL:        cfg.PNCP.BaseURL,
			UserAgent:      cfg.PNCP.UserAgent,
			SearchPageSize: cfg.PNCP.SearchPageSize,
			ItemsPageSize:  cfg.PNCP.ItemsPageSize,
			MaxRetries:     cfg.PNCP.MaxRetries,
			BackoffBase:    cfg.PNCP.BackoffBase,
			RateLimit:      rl,
			Timeout:        cfg.PNCP.Timeout,
		})
		client.SetDebug(*verbose)
		return client
	}

	service := usecase.NewExtractionService(
		clientFactory,
		export.NewFileExporter(),
		capture.NewCapturer(),
		usecase.ExtractionServiceConfig{
			PortalURL:             cfg.PNCP.PortalURL,
			DefaultMaxProcesses:   cfg.Extraction.MaxProcesses,
			DefaultFuzzyThreshold: cfg.Extraction.FuzzyThreshold,
			DefaultOutputDir:      cfg.Extraction.OutputDir,
		},
	)

	params := domain.ExtractionParams{
		Keywords:       *keywords,
		UF:             *uf,
		DateFrom:       *dateFrom,
		DateTo:         *dateTo,
		Contratante:    *contratante,
		Status:         *status,
		MaxProcesses:   *maxProcesses,
		FuzzyThreshold: *fuzzyThreshold,
		RateLimit:      *rateLimit,
		OutputDir:      *outputDir,
		Screenshots:    *screenshots,
	}

	log.Printf("PNCP Bot - Starting extraction")

	result := service.Run(context.Background(), params, usecase.Callbacks{})

	switch result.Status {
	case domain.StatusDone:
		log.Printf("Done! %d items found -> %s", len(result.Records), *outputDir)
	case domain.StatusCaptcha:
		log.Printf("CAPTCHA detected. Solve it in a browser and retry.")
		os.Exit(1)
	default:
		log.Printf("Extraction failed: %s", result.Message)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}
