package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	webpdf "github.com/agmm7834/website-to-pdf1901"
)

type rootOptions struct {
	out             string
	chromePath      string
	downloadBrowser bool
	sandbox         bool
	pdfMedia        string
	verbose         bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "webpdf <url>",
		Short: "Render a web page to PDF and keep debug artifacts",
		Long: `webpdf loads a page in headless Chromium, scrolls it to trigger lazy
content and prints it to an A4 PDF. A full-page screenshot, the rendered
HTML and a log of console messages, page errors and failed requests are
saved next to the PDF to help explain a bad render.`,
		Example:       "  webpdf https://example.com -o out/site.pdf",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "page.pdf", "output PDF path")
	f.StringVar(&o.chromePath, "chrome", "", "path to the Chrome or Chromium executable")
	f.BoolVar(&o.downloadBrowser, "download-browser", false, "download Chromium if none is installed")
	f.BoolVar(&o.sandbox, "sandbox", false, "keep the Chrome sandbox enabled")
	f.StringVar(&o.pdfMedia, "pdf-media", webpdf.MediaScreen, "media emulated while printing (screen or print)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log capture steps to stderr")
	return cmd
}

func (o *rootOptions) capturerOptions(logger *zap.Logger) []webpdf.Option {
	opts := []webpdf.Option{
		webpdf.WithLogger(logger),
		webpdf.WithPDFMedia(o.pdfMedia),
	}
	if o.chromePath != "" {
		opts = append(opts, webpdf.WithChromePath(o.chromePath))
	}
	if o.downloadBrowser {
		opts = append(opts, webpdf.WithAutoDownload())
	}
	if o.sandbox {
		opts = append(opts, webpdf.WithSandbox())
	}
	return opts
}

func run(cmd *cobra.Command, rawURL string, o *rootOptions) error {
	logger, err := newLogger(o.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	rep, err := webpdf.Capture(cmd.Context(), rawURL, o.out, o.capturerOptions(logger)...)
	if err != nil {
		return err
	}
	return rep.Artifacts.Print(cmd.OutOrStdout())
}

// newLogger builds the stderr logger: warnings only, or every step
// with verbose set.
func newLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	return cfg.Build()
}
