// Package snapshot captures the rendered dashboard page as a PNG using a
// headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"influencer-dashboard/utils"
)

// Capturer screenshots dashboard pages.
type Capturer struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// New creates a Capturer. An empty chromeBin falls back to FindChromeBinary.
func New(chromeBin string, maxRetries int, logger *utils.Logger) *Capturer {
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	return &Capturer{
		chromeBin: chromeBin,
		timeout:   45 * time.Second,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// AllocatorOptions are the Chrome flags used for every capture.
func (c *Capturer) AllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 900),
	)
	if c.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(c.chromeBin))
	}
	return opts
}

// Capture loads pageURL, waits for the charts to load and returns a full-page PNG.
func (c *Capturer) Capture(ctx context.Context, pageURL string) ([]byte, error) {
	c.logger.Info("[snapshot] Capturing %s (browser: %s)", pageURL, c.chromeBin)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.AllocatorOptions()...)
	defer cancelAlloc()

	var buf []byte
	err := c.retry.DoContext(ctx, "snapshot", func() error {
		tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancelTab()
		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.WaitVisible("section.indicators", chromedp.ByQuery),
			chromedp.Poll(`Array.from(document.images).every(i => i.complete)`, nil,
				chromedp.WithPollingTimeout(20*time.Second)),
			chromedp.FullScreenshot(&buf, 90),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return buf, nil
}

// CaptureToFile captures pageURL and writes the PNG to path.
func (c *Capturer) CaptureToFile(ctx context.Context, pageURL, path string) error {
	buf, err := c.Capture(ctx, pageURL)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", path, err)
	}
	c.logger.Info("[snapshot] Saved %s (%d bytes)", path, len(buf))
	return nil
}

// FindChromeBinary looks for a Chrome or Chromium executable, honouring CHROME_BIN.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
