package pncp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pncpbot/backend/internal/domain"
	"golang.org/x/time/rate"
)

// HTTP statuses that trigger a retry with backoff. Everything else either
// succeeds, raises CAPTCHA handling, or surfaces as an APIError.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

const apiErrorBodyExcerpt = 200

// ClientConfig holds configuration for the PNCP API client.
// Zero values fall back to the platform defaults.
type ClientConfig struct {
	BaseURL        string
	UserAgent      string
	SearchPageSize int
	ItemsPageSize  int
	MaxRetries     int
	BackoffBase    time.Duration
	RateLimit      float64 // seconds between requests
	Timeout        time.Duration
}

// Client handles communication with the PNCP platform APIs.
// A Client is not safe for concurrent use: the rate limiter spaces requests
// for one sequential run. Give each run its own Client.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	searchPageSize int
	itemsPageSize  int
	maxRetries     int
	backoffBase    time.Duration
	rateLimiter    *rate.Limiter
	debug          bool
}

// NewClient creates a new PNCP API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://pncp.gov.br"
	}
	if cfg.SearchPageSize <= 0 {
		cfg.SearchPageSize = 50
	}
	if cfg.ItemsPageSize <= 0 {
		cfg.ItemsPageSize = 500
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	// One request per RateLimit seconds, no burst, so the minimum gap between
	// outbound requests holds across the whole run.
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(cfg.RateLimit*float64(time.Second))), 1)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		searchPageSize: cfg.SearchPageSize,
		itemsPageSize:  cfg.ItemsPageSize,
		maxRetries:     cfg.MaxRetries,
		backoffBase:    cfg.BackoffBase,
		rateLimiter:    limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the delay before retry number attempt (1-based):
// 2s, 4s, 8s with the default base.
func (c *Client) exponentialBackoff(attempt int) time.Duration {
	return c.backoffBase << (attempt - 1)
}

// get executes a throttled GET with retry, CAPTCHA detection and error
// classification, returning the raw response body.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.exponentialBackoff(attempt)
			if c.debug {
				log.Printf("[PNCP] Retry %d/%d in %s: %s", attempt, c.maxRetries, delay, reqURL)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		if c.debug {
			log.Printf("[PNCP] GET %s", reqURL)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		// CAPTCHA detection: a 403 or an HTML page where JSON was expected,
		// carrying a challenge marker. Fatal for the run, never retried.
		contentType := resp.Header.Get("Content-Type")
		if resp.StatusCode == http.StatusForbidden || strings.Contains(contentType, "text/html") {
			lower := strings.ToLower(string(body))
			if strings.Contains(lower, "captcha") || strings.Contains(lower, "challenge") {
				return nil, fmt.Errorf("%w: manual intervention required, URL: %s",
					domain.ErrCaptchaDetected, reqURL)
			}
		}

		if retryStatuses[resp.StatusCode] {
			lastErr = &domain.APIError{StatusCode: resp.StatusCode, Body: excerpt(body)}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &domain.APIError{StatusCode: resp.StatusCode, Body: excerpt(body)}
		}

		return body, nil
	}

	return nil, lastErr
}

// excerpt truncates a response body for error messages
func excerpt(body []byte) string {
	s := string(body)
	if len(s) > apiErrorBodyExcerpt {
		s = s[:apiErrorBodyExcerpt]
	}
	return s
}

// SearchProcesses searches procurement processes matching keyword.
// Returns the page of processes and the server-reported total count.
func (c *Client) SearchProcesses(ctx context.Context, keyword string, page, pageSize int, status, uf string) ([]domain.Process, int, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("tipos_documento", "edital")
	params.Set("ordenacao", "-data")
	params.Set("pagina", strconv.Itoa(page))
	params.Set("tam_pagina", strconv.Itoa(pageSize))
	if status != "" {
		params.Set("status", status)
	}
	if uf != "" {
		params.Set("ufs", strings.ToUpper(uf))
	}

	reqURL := fmt.Sprintf("%s/api/search/?%s", c.baseURL, params.Encode())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, 0, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	processes := make([]domain.Process, 0, len(resp.Items))
	for _, p := range resp.Items {
		processes = append(processes, mapProcess(p))
	}

	log.Printf("[PNCP] Search %q page %d -> %d items (total %d)", keyword, page, len(processes), resp.Total)
	return processes, resp.Total, nil
}

// GetItemsCount returns the number of items in a process
func (c *Client) GetItemsCount(ctx context.Context, cnpj string, ano, seq int) (int, error) {
	reqURL := fmt.Sprintf("%s/api/pncp/v1/orgaos/%s/compras/%d/%d/itens/quantidade",
		c.baseURL, cnpj, ano, seq)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return 0, err
	}

	// The endpoint returns a bare integer
	count, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, fmt.Errorf("failed to decode items count: %w", err)
	}

	if c.debug {
		log.Printf("[PNCP] Items count %s/%d/%d -> %d", cnpj, ano, seq, count)
	}
	return count, nil
}

// GetItems fetches all items for a process, paginating if necessary.
// When the count endpoint reports zero, no page request is issued.
func (c *Client) GetItems(ctx context.Context, cnpj string, ano, seq int) ([]domain.Item, error) {
	totalCount, err := c.GetItemsCount(ctx, cnpj, ano, seq)
	if err != nil {
		return nil, err
	}
	if totalCount == 0 {
		return []domain.Item{}, nil
	}

	itemsURL := fmt.Sprintf("%s/api/pncp/v1/orgaos/%s/compras/%d/%d/itens", c.baseURL, cnpj, ano, seq)
	totalPages := (totalCount + c.itemsPageSize - 1) / c.itemsPageSize

	var allItems []domain.Item
	for page := 1; page <= totalPages; page++ {
		params := url.Values{}
		params.Set("pagina", strconv.Itoa(page))
		params.Set("tamanhoPagina", strconv.Itoa(c.itemsPageSize))

		body, err := c.get(ctx, fmt.Sprintf("%s?%s", itemsURL, params.Encode()))
		if err != nil {
			return nil, err
		}

		var payload []itemPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode items page %d: %w", page, err)
		}

		for _, it := range payload {
			allItems = append(allItems, mapItem(it))
		}

		if c.debug {
			log.Printf("[PNCP] Items page %d/%d for %s/%d/%d -> %d items",
				page, totalPages, cnpj, ano, seq, len(payload))
		}

		if len(payload) < c.itemsPageSize {
			break
		}
	}

	log.Printf("[PNCP] Fetched %d items for %s/%d/%d", len(allItems), cnpj, ano, seq)
	return allItems, nil
}

// GetProcessDetail returns the full metadata object for a single process.
// The payload shape is passed through untouched; the core does not consume it.
func (c *Client) GetProcessDetail(ctx context.Context, cnpj string, ano, seq int) (map[string]any, error) {
	reqURL := fmt.Sprintf("%s/api/consulta/v1/orgaos/%s/compras/%d/%d", c.baseURL, cnpj, ano, seq)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var detail map[string]any
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode process detail: %w", err)
	}
	return detail, nil
}

// DiscoverProcesses searches every keyword in order, paging through results
// and applying the client-side filters, until the unique-process cap is
// reached or all result pages are exhausted. Deduplication is by control
// number, preserving first-seen order across keywords and pages.
func (c *Client) DiscoverProcesses(ctx context.Context, keywords []string, filter domain.DiscoveryFilter) ([]domain.Process, error) {
	maxProcesses := filter.MaxProcesses
	if maxProcesses <= 0 {
		maxProcesses = 100
	}

	seen := make(map[string]bool)
	var results []domain.Process

	for _, kw := range keywords {
		page := 1
		for {
			items, total, err := c.SearchProcesses(ctx, kw, page, c.searchPageSize, filter.Status, filter.UF)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				break
			}

			for _, proc := range items {
				if seen[proc.ControlNumber] {
					continue
				}
				if !passesFilters(proc, filter) {
					continue
				}

				seen[proc.ControlNumber] = true
				results = append(results, proc)

				if len(results) >= maxProcesses {
					log.Printf("[PNCP] Reached max processes (%d), stopping discovery", maxProcesses)
					return results, nil
				}
			}

			totalPages := (total + c.searchPageSize - 1) / c.searchPageSize
			if page >= totalPages {
				break
			}
			page++
		}
	}

	log.Printf("[PNCP] Discovered %d unique processes", len(results))
	return results, nil
}

// passesFilters applies the client-side date and contracting-entity filters.
// Dates compare the date-only prefix of the publication timestamp
// lexicographically, both bounds inclusive.
func passesFilters(proc domain.Process, filter domain.DiscoveryFilter) bool {
	if filter.DateFrom != "" || filter.DateTo != "" {
		pub := proc.PublishedAt
		if len(pub) > 10 {
			pub = pub[:10]
		}
		if filter.DateFrom != "" && pub < filter.DateFrom {
			return false
		}
		if filter.DateTo != "" && pub > filter.DateTo {
			return false
		}
	}

	if filter.Contratante != "" {
		orgao := strings.ToLower(proc.OrgaoName)
		if !strings.Contains(orgao, strings.ToLower(filter.Contratante)) {
			return false
		}
	}

	return true
}

var itemURLRegex = regexp.MustCompile(`^/compras/(\d+)/(\d+)/(\d+)`)

// ParseItemURL parses a search-result item URL like /compras/12345678000199/2026/18
// into its (cnpj, ano, sequencial) components.
func ParseItemURL(itemURL string) (cnpj string, ano, seq int, err error) {
	m := itemURLRegex.FindStringSubmatch(itemURL)
	if m == nil {
		return "", 0, 0, fmt.Errorf("%w: %s", domain.ErrItemURLParse, itemURL)
	}
	ano, _ = strconv.Atoi(m[2])
	seq, _ = strconv.Atoi(m[3])
	return m[1], ano, seq, nil
}
