// webpdf renders a web page to PDF with a headless browser and saves a
// screenshot, the rendered HTML and a console/network log next to it.
//
// Usage:
//
//	webpdf <url> [-o|--out <path>]
//
// For -o out/site.pdf it writes out/site.pdf, out/site_debug.png,
// out/site_debug.html and out/site_debug.log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
