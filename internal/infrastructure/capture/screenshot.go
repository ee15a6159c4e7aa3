package capture

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pncpbot/backend/internal/domain"
)

// Capturer takes full-page screenshots of process portal pages with a
// headless Chrome instance.
type Capturer struct {
	navigationTimeout time.Duration
	settleDelay       time.Duration
}

// NewCapturer creates a screenshot capturer
func NewCapturer() *Capturer {
	return &Capturer{
		navigationTimeout: 30 * time.Second,
		settleDelay:       2 * time.Second,
	}
}

// Capture opens each record's source page and saves a full-page screenshot
// under <outputDir>/screenshots, updating the record's CapturePath in place.
// Per-page failures are logged and leave CapturePath empty; only browser
// startup failures are returned.
func (c *Capturer) Capture(ctx context.Context, records []domain.Record, outputDir string) error {
	shotsDir := filepath.Join(outputDir, "screenshots")
	if err := os.MkdirAll(shotsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create screenshots dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Start the browser up front so a missing Chrome fails the whole stage
	// instead of every record individually.
	if err := chromedp.Run(browserCtx); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	for i := range records {
		rec := &records[i]
		path := filepath.Join(shotsDir, screenshotFilename(*rec))

		if err := c.capturePage(browserCtx, rec.SourceURL, path); err != nil {
			log.Printf("[CAPTURE] Screenshot failed for %s: %v", rec.SourceURL, err)
			rec.CapturePath = ""
			continue
		}

		rec.CapturePath = path
		log.Printf("[CAPTURE] Screenshot saved: %s", path)
	}

	return nil
}

func (c *Capturer) capturePage(browserCtx context.Context, pageURL, path string) error {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.navigationTimeout)
	defer cancelTimeout()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(c.settleDelay),
		chromedp.FullScreenshot(&buf, 90),
	); err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0o644)
}

// screenshotFilename builds a filesystem-safe name from the record identity
// and its first matched keyword.
func screenshotFilename(rec domain.Record) string {
	pid := strings.NewReplacer("/", "_", "-", "_").Replace(rec.ProcessID)
	kw := rec.MatchedKeywords
	if idx := strings.Index(kw, ","); idx >= 0 {
		kw = kw[:idx]
	}
	kw = strings.ReplaceAll(strings.TrimSpace(kw), " ", "_")
	return fmt.Sprintf("%s_%d_%s.png", pid, rec.ItemID, kw)
}
