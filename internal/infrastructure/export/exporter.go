package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pncpbot/backend/internal/domain"
)

// csvHeader fixes the output field order of the export contract
var csvHeader = []string{
	"process_id",
	"item_id",
	"descricao",
	"quantidade",
	"unidade",
	"valor_unitario",
	"valor_total",
	"fornecedor",
	"contratante",
	"data_publicacao",
	"source_url",
	"capture_path",
	"matched_keywords",
	"match_quality",
	"status",
}

// FileExporter writes matched records as flat JSON and CSV files
type FileExporter struct{}

// NewFileExporter creates a new file exporter
func NewFileExporter() *FileExporter {
	return &FileExporter{}
}

// ExportJSON writes records to results.json under outputDir and returns the path
func (e *FileExporter) ExportJSON(records []domain.Record, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(outputDir, "results.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Printf("[EXPORT] Exported %d records -> %s", len(records), path)
	return path, nil
}

// ExportCSV writes records to results.csv under outputDir and returns the path.
// The file starts with a UTF-8 BOM so spreadsheet tools pick up the encoding.
func (e *FileExporter) ExportCSV(records []domain.Record, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(outputDir, "results.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ProcessID,
			strconv.Itoa(rec.ItemID),
			rec.Descricao,
			formatNumber(rec.Quantidade),
			rec.Unidade,
			formatNumber(rec.ValorUnitario),
			formatNumber(rec.ValorTotal),
			rec.Fornecedor,
			rec.Contratante,
			rec.DataPublicacao,
			rec.SourceURL,
			rec.CapturePath,
			rec.MatchedKeywords,
			rec.MatchQuality,
			rec.Status,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	log.Printf("[EXPORT] Exported %d records -> %s", len(records), path)
	return path, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
