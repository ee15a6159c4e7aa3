package domain

import "context"

// DiscoveryFilter holds the search-time filters applied during discovery.
// UF and Status are forwarded to the search API; the date range and
// Contratante are applied client-side.
type DiscoveryFilter struct {
	UF           string
	DateFrom     string
	DateTo       string
	Contratante  string
	Status       string
	MaxProcesses int
}

// ProcurementClient defines the interface for talking to the PNCP platform.
type ProcurementClient interface {
	SearchProcesses(ctx context.Context, keyword string, page, pageSize int, status, uf string) ([]Process, int, error)
	GetItemsCount(ctx context.Context, cnpj string, ano, seq int) (int, error)
	GetItems(ctx context.Context, cnpj string, ano, seq int) ([]Item, error)
	GetProcessDetail(ctx context.Context, cnpj string, ano, seq int) (map[string]any, error)
	DiscoverProcesses(ctx context.Context, keywords []string, filter DiscoveryFilter) ([]Process, error)
}

// Exporter persists finished records as flat files under an output directory.
type Exporter interface {
	ExportJSON(records []Record, outputDir string) (string, error)
	ExportCSV(records []Record, outputDir string) (string, error)
}

// ScreenshotCapturer captures each record's source page, updating the
// record's CapturePath in place. Failures are per-record and non-fatal.
type ScreenshotCapturer interface {
	Capture(ctx context.Context, records []Record, outputDir string) error
}
