package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pncpbot/backend/internal/domain"
	"github.com/pncpbot/backend/internal/infrastructure/pncp"
)

// ClientFactory builds a fresh API client for one run. Each run gets its own
// client so the rate limiter stays meaningful for that run only.
type ClientFactory func(rateLimitSeconds float64) domain.ProcurementClient

// Callbacks carries the optional per-run sinks. Both are nil-safe.
type Callbacks struct {
	OnLog      domain.LogFunc
	OnProgress domain.ProgressFunc
}

// ExtractionServiceConfig holds configuration for the extraction service
type ExtractionServiceConfig struct {
	PortalURL             string
	DefaultMaxProcesses   int
	DefaultFuzzyThreshold int
	DefaultOutputDir      string
}

// ExtractionService orchestrates one extraction run:
// parse keywords -> discover processes -> fetch items -> match -> export.
type ExtractionService struct {
	newClient      ClientFactory
	exporter       domain.Exporter
	capturer       domain.ScreenshotCapturer
	portalURL      string
	maxProcesses   int
	fuzzyThreshold int
	outputDir      string
}

// NewExtractionService creates an extraction service with its dependencies.
// exporter and capturer may be nil; the corresponding stages are then skipped.
func NewExtractionService(
	newClient ClientFactory,
	exporter domain.Exporter,
	capturer domain.ScreenshotCapturer,
	config ExtractionServiceConfig,
) *ExtractionService {
	portalURL := config.PortalURL
	if portalURL == "" {
		portalURL = "https://pncp.gov.br/app/editais"
	}
	maxProcesses := config.DefaultMaxProcesses
	if maxProcesses <= 0 {
		maxProcesses = 100
	}
	fuzzyThreshold := config.DefaultFuzzyThreshold
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = 80
	}
	outputDir := config.DefaultOutputDir
	if outputDir == "" {
		outputDir = "./output"
	}

	return &ExtractionService{
		newClient:      newClient,
		exporter:       exporter,
		capturer:       capturer,
		portalURL:      portalURL,
		maxProcesses:   maxProcesses,
		fuzzyThreshold: fuzzyThreshold,
		outputDir:      outputDir,
	}
}

// Run executes the full extraction pipeline for params. It never returns a
// raw failure: the result always carries a terminal status (done, error or
// captcha) and a human-readable message.
func (s *ExtractionService) Run(ctx context.Context, params domain.ExtractionParams, cb Callbacks) domain.ExtractionResult {
	emit := func(msg string) {
		log.Printf("[PIPELINE] %s", msg)
		if cb.OnLog != nil {
			cb.OnLog(msg)
		}
	}

	maxProcesses := params.MaxProcesses
	if maxProcesses <= 0 {
		maxProcesses = s.maxProcesses
	}
	fuzzyThreshold := params.FuzzyThreshold
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = s.fuzzyThreshold
	}
	outputDir := params.OutputDir
	if outputDir == "" {
		outputDir = s.outputDir
	}

	// 1. Parse keywords
	parsed := ParseKeywords(params.Keywords)
	if len(parsed) == 0 {
		emit("Nenhuma palavra-chave válida.")
		return domain.ExtractionResult{
			Status:  domain.StatusError,
			Message: "Nenhuma palavra-chave válida.",
			Records: []domain.Record{},
		}
	}

	baseTerms := distinctBaseTerms(parsed)
	emit(fmt.Sprintf("Termos de busca: %v", baseTerms))

	// 2. Discover processes
	client := s.newClient(params.RateLimit)
	emit("Buscando processos...")

	processes, err := client.DiscoverProcesses(ctx, baseTerms, domain.DiscoveryFilter{
		UF:           params.UF,
		DateFrom:     params.DateFrom,
		DateTo:       params.DateTo,
		Contratante:  params.Contratante,
		Status:       params.Status,
		MaxProcesses: maxProcesses,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCaptchaDetected) {
			emit(fmt.Sprintf("CAPTCHA detectado: %v", err))
			return domain.ExtractionResult{
				Status:  domain.StatusCaptcha,
				Message: err.Error(),
				Records: []domain.Record{},
			}
		}
		emit(fmt.Sprintf("Erro na busca: %v", err))
		return domain.ExtractionResult{
			Status:  domain.StatusError,
			Message: err.Error(),
			Records: []domain.Record{},
		}
	}

	emit(fmt.Sprintf("Encontrados %d processos.", len(processes)))

	if len(processes) == 0 {
		return domain.ExtractionResult{
			Status:  domain.StatusDone,
			Message: "Nenhum processo encontrado.",
			Records: []domain.Record{},
		}
	}

	// 3. Fetch items & match
	records := []domain.Record{}

	for i, proc := range processes {
		if cb.OnProgress != nil {
			cb.OnProgress(i+1, len(processes), fmt.Sprintf("Processando %s...", proc.ControlNumber))
		}
		emit(fmt.Sprintf("[%d/%d] %s", i+1, len(processes), proc.ControlNumber))

		cnpj, ano, seq, err := pncp.ParseItemURL(proc.ItemURL)
		if err != nil {
			emit(fmt.Sprintf("  URL inválida: %s", proc.ItemURL))
			continue
		}

		items, err := client.GetItems(ctx, cnpj, ano, seq)
		if err != nil {
			if errors.Is(err, domain.ErrCaptchaDetected) {
				// fatal for the rest of the run; keep what is already matched
				emit(fmt.Sprintf("CAPTCHA: %v", err))
				break
			}
			emit(fmt.Sprintf("  Erro ao buscar itens: %v", err))
			continue
		}

		sourceURL := fmt.Sprintf("%s/%s/%d/%d", s.portalURL, cnpj, ano, seq)

		for _, item := range items {
			matched := MatchDescription(item.Descricao, parsed, fuzzyThreshold)
			if len(matched) == 0 {
				continue
			}
			records = append(records, domain.BuildRecord(proc, item, matched, sourceURL))
			emit(fmt.Sprintf("  ✓ Item #%d -> %s", item.Number, truncate(item.Descricao, 60)))
		}
	}

	// 4. Export
	if len(records) > 0 && s.exporter != nil {
		s.export(records, outputDir, emit)
	} else if len(records) == 0 {
		emit("Nenhum item encontrado com os critérios informados.")
	}

	// 5. Screenshots (optional)
	if params.Screenshots && len(records) > 0 && s.capturer != nil {
		emit("Capturando screenshots...")
		if err := s.capturer.Capture(ctx, records, outputDir); err != nil {
			emit(fmt.Sprintf("Erro ao capturar screenshots: %v", err))
		} else if s.exporter != nil {
			// re-export so capture paths land in the files
			s.export(records, outputDir, emit)
		}
	}

	emit(fmt.Sprintf("Concluído! %d itens encontrados.", len(records)))
	return domain.ExtractionResult{
		Status:  domain.StatusDone,
		Records: records,
	}
}

func (s *ExtractionService) export(records []domain.Record, outputDir string, emit func(string)) {
	if _, err := s.exporter.ExportJSON(records, outputDir); err != nil {
		emit(fmt.Sprintf("Erro ao exportar JSON: %v", err))
	}
	if _, err := s.exporter.ExportCSV(records, outputDir); err != nil {
		emit(fmt.Sprintf("Erro ao exportar CSV: %v", err))
	}
	emit(fmt.Sprintf("Exportados %d itens -> %s", len(records), outputDir))
}

// distinctBaseTerms returns the unique base terms in first-seen order
func distinctBaseTerms(keywords []domain.ParsedKeyword) []string {
	seen := make(map[string]bool, len(keywords))
	var terms []string
	for _, kw := range keywords {
		if !seen[kw.Term] {
			seen[kw.Term] = true
			terms = append(terms, kw.Term)
		}
	}
	return terms
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
