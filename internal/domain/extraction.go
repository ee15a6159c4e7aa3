package domain

// Extraction run statuses.
const (
	StatusDone    = "done"
	StatusError   = "error"
	StatusCaptcha = "captcha"
)

// ExtractionParams is the immutable per-run configuration built once from
// external input (CLI flags or a web request payload).
type ExtractionParams struct {
	Keywords       string  `json:"keywords"`
	UF             string  `json:"uf"`
	DateFrom       string  `json:"date_from"` // YYYY-MM-DD, inclusive
	DateTo         string  `json:"date_to"`   // YYYY-MM-DD, inclusive
	Contratante    string  `json:"contratante"`
	MaxProcesses   int     `json:"max_processes"`
	FuzzyThreshold int     `json:"fuzzy_threshold"` // 0-100; 100 disables the fuzzy fallback
	RateLimit      float64 `json:"rate_limit"`      // seconds between API requests
	OutputDir      string  `json:"output_dir"`
	Screenshots    bool    `json:"screenshots"`
	Status         string  `json:"status"`
}

// ExtractionResult is the terminal outcome of a pipeline run. Status is one of
// StatusDone, StatusError, StatusCaptcha; Records is ordered by discovery and
// item order.
type ExtractionResult struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Records []Record `json:"records"`
}

// LogFunc receives one log line per pipeline event.
type LogFunc func(msg string)

// ProgressFunc receives (current, total, label) per processed process.
type ProgressFunc func(current, total int, label string)
