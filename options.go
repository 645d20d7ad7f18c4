package webpdf

import (
	"time"

	"go.uber.org/zap"
)

// Media names accepted by [WithPDFMedia].
const (
	MediaScreen = "screen"
	MediaPrint  = "print"
)

// capturerConfig holds internal configuration for a Capturer.
type capturerConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	autoDownload bool
	headless     string
	pdfMedia     string
	timings      timings
	logger       *zap.Logger
}

func defaultConfig() capturerConfig {
	return capturerConfig{
		noSandbox: true,
		headless:  "new",
		pdfMedia:  MediaScreen,
		timings:   defaultTimings(),
		logger:    zap.NewNop(),
	}
}

// Option configures a [Capturer].
type Option func(*capturerConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default chromedp searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *capturerConfig) {
		c.chromePath = path
	}
}

// WithTimeout puts a ceiling on a whole capture, on top of the fixed
// per-step timeouts. Zero, the default, means no ceiling.
func WithTimeout(d time.Duration) Option {
	return func(c *capturerConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. That is already the default,
// as captures commonly run as root inside containers; the option restores
// it after an earlier [WithSandbox].
func WithNoSandbox() Option {
	return func(c *capturerConfig) {
		c.noSandbox = true
	}
}

// WithSandbox keeps the Chrome sandbox enabled.
func WithSandbox() Option {
	return func(c *capturerConfig) {
		c.noSandbox = false
	}
}

// WithAutoDownload fetches a compatible Chromium build when no explicit
// path was given with [WithChromePath].
func WithAutoDownload() Option {
	return func(c *capturerConfig) {
		c.autoDownload = true
	}
}

// WithPDFMedia selects the media type emulated while printing the PDF.
// Defaults to [MediaScreen]; [MediaPrint] lets @media print rules,
// including the injected visibility override, take effect.
func WithPDFMedia(media string) Option {
	return func(c *capturerConfig) {
		c.pdfMedia = media
	}
}

// WithLogger sets the logger used for operational messages. The debug
// journal written next to the PDF is independent of it.
func WithLogger(l *zap.Logger) Option {
	return func(c *capturerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
