// Package webpdf renders web pages to PDF with headless Chrome (Chrome
// DevTools Protocol) and keeps the artifacts needed to debug a bad render.
//
// A capture produces four files that share the PDF's stem:
//
//	site.pdf          A4 PDF, backgrounds printed, 10 mm margins
//	site_debug.png    full-page screenshot under screen media
//	site_debug.html   the DOM after loading and scrolling
//	site_debug.log    console messages, page errors, failed requests
//	                  and step warnings, one per line
//
// For a one-off capture use the package-level helper, which starts and
// stops its own browser:
//
//	rep, err := webpdf.Capture(ctx, "https://example.com", "out/site.pdf")
//
// For repeated captures create a [Capturer], which reuses the browser process:
//
//	c, err := webpdf.NewCapturer(webpdf.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	rep, err := c.Capture(ctx, "https://example.com", "out/site.pdf")
//
// Slow pages do not fail a capture. Navigation and network-idle timeouts,
// scroll errors and HTML dump errors are written to the debug log and
// reported as degraded steps:
//
//	if rep.Degraded() {
//	    for _, s := range rep.DegradedSteps() {
//	        fmt.Println(s.Name, s.Err)
//	    }
//	}
//
// Everything else, such as an unresolvable host or a failed screenshot,
// is returned as an error.
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]:
//
//	c, err := webpdf.NewCapturer(webpdf.WithAutoDownload())
package webpdf
