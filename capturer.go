package webpdf

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Capturer renders web pages to PDF together with their debug artifacts.
//
// A Capturer manages a headless browser instance that is reused across
// captures; every capture runs in a fresh tab. It is safe for concurrent use.
//
// Call [Capturer.Close] when the Capturer is no longer needed to release
// browser resources.
type Capturer struct {
	cfg           capturerConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewCapturer creates a Capturer with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Capturer.Close] when finished.
func NewCapturer(opts ...Option) (*Capturer, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.pdfMedia != MediaScreen && cfg.pdfMedia != MediaPrint {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMedia, cfg.pdfMedia)
	}

	execPath, err := browserPath(cfg)
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
		chromedp.Flag("lang", locale),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("webpdf: starting browser: %w", err)
	}
	cfg.logger.Debug("browser started", zap.String("exec_path", execPath), zap.Bool("no_sandbox", cfg.noSandbox))

	return &Capturer{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Capturer, including the
// browser process. Close is idempotent.
func (c *Capturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// Capture renders rawURL to the PDF at out and writes the screenshot,
// HTML dump and debug log next to it.
//
// Timeouts while loading, scroll failures and HTML dump failures are
// recorded in the log and in [Report.Steps]; the capture carries on. Any
// other failure is returned, in which case no log file is written and
// artifacts of earlier steps may remain on disk.
func (c *Capturer) Capture(ctx context.Context, rawURL, out string) (*Report, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	arts, err := ArtifactsFor(out)
	if err != nil {
		return nil, err
	}
	if err := arts.Prepare(); err != nil {
		return nil, err
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	s := newSession(c.cfg, rawURL, arts)

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	if err := chromedp.Run(tabCtx, s.tasks()); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("webpdf: capture aborted: %w", ctx.Err())
		}
		return nil, err
	}
	tabCancel()

	if err := s.journal.WriteFile(arts.Log); err != nil {
		return nil, err
	}

	rep := &Report{
		URL:       rawURL,
		Artifacts: arts,
		Steps:     s.steps,
		Log:       s.journal.Lines(),
		Elapsed:   time.Since(start),
		pdf:       s.pdf,
	}
	s.logger.Info("capture finished",
		zap.Duration("elapsed", rep.Elapsed),
		zap.Bool("degraded", rep.Degraded()),
		zap.Int("log_lines", len(rep.Log)))
	return rep, nil
}

func (c *Capturer) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func validateURL(rawURL string) error {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return fmt.Errorf("webpdf: invalid URL %q: %w", rawURL, err)
	}
	return nil
}

// Capture renders a page using a temporary [Capturer], which is closed
// before returning on every path.
func Capture(ctx context.Context, rawURL, out string, opts ...Option) (*Report, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	c, err := NewCapturer(opts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Capture(ctx, rawURL, out)
}
