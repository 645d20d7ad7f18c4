package webpdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Names of the capture steps, as used in [Report.Steps].
const (
	StepGoto       = "goto"
	StepLoadState  = "load_state"
	StepScroll     = "scroll"
	StepScreenshot = "screenshot"
	StepHTML       = "html"
	StepStyle      = "style"
	StepPDF        = "pdf"
)

// Fixed capture parameters.
const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/122.0.0.0 Safari/537.36"
	locale         = "en-US"
	viewportWidth  = 1366
	viewportHeight = 768

	scrollSteps = 6
	scrollDelta = 2000
)

// timings are the waits of the capture sequence.
type timings struct {
	navigation  time.Duration
	networkIdle time.Duration
	scrollPause time.Duration
	settle      time.Duration
}

func defaultTimings() timings {
	return timings{
		navigation:  90 * time.Second,
		networkIdle: 90 * time.Second,
		scrollPause: 700 * time.Millisecond,
		settle:      time.Second,
	}
}

// printOverrideCSS keeps content visible and colors exact when print
// styles would otherwise hide or wash them out.
const printOverrideCSS = `
@media print {
  html, body { display: block !important; visibility: visible !important; }
  * { -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }
}
`

const addStyleScript = `(() => {
  const s = document.createElement('style');
  s.textContent = %s;
  (document.head || document.documentElement).appendChild(s);
  return true;
})()`

// session is the state of a single capture running in its own tab.
type session struct {
	url      string
	arts     Artifacts
	pageCfg  PageConfig
	pdfMedia string
	timings  timings
	logger   *zap.Logger

	journal *Journal
	events  *eventLog
	life    *lifecycle
	loader  cdp.LoaderID
	steps   []StepResult
	pdf     []byte
}

func newSession(cfg capturerConfig, rawURL string, arts Artifacts) *session {
	j := &Journal{}
	return &session{
		url:      rawURL,
		arts:     arts,
		pageCfg:  DefaultPageConfig(),
		pdfMedia: cfg.pdfMedia,
		timings:  cfg.timings,
		logger:   cfg.logger.With(zap.String("url", rawURL)),
		journal:  j,
		events:   newEventLog(j),
		life:     newLifecycle(),
	}
}

// tasks is the fixed capture sequence. Steps that tolerate failure record
// it and return nil; any error returned ends the capture.
func (s *session) tasks() chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.ActionFunc(s.listen),
		chromedp.ActionFunc(s.emulateDevice),
		chromedp.ActionFunc(s.navigate),
		chromedp.ActionFunc(s.waitNetworkIdle),
		chromedp.ActionFunc(s.scroll),
		chromedp.ActionFunc(s.screenshot),
		chromedp.ActionFunc(s.dumpHTML),
		chromedp.ActionFunc(s.injectPrintOverride),
		chromedp.ActionFunc(s.printPDF),
	}
}

func (s *session) ok(step string) {
	s.logger.Debug("step finished", zap.String("step", step))
	s.steps = append(s.steps, StepResult{Name: step, Status: StepOK})
}

func (s *session) degrade(step string, err error, line string) {
	s.logger.Warn("step degraded", zap.String("step", step), zap.Error(err))
	s.journal.Add(line)
	s.steps = append(s.steps, StepResult{Name: step, Status: StepDegraded, Err: err})
}

// timedOut reports whether err comes from a step deadline rather than
// from the capture itself being cancelled.
func timedOut(parent context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil
}

// listen registers the event sinks before anything is loaded.
func (s *session) listen(ctx context.Context) error {
	chromedp.ListenTarget(ctx, func(ev any) {
		s.life.handle(ev)
		s.events.handle(ev)
	})
	tree, err := page.GetFrameTree().Do(ctx)
	if err != nil {
		return fmt.Errorf("webpdf: reading frame tree: %w", err)
	}
	s.life.setFrame(tree.Frame.ID)

	if err := runtime.Enable().Do(ctx); err != nil {
		return fmt.Errorf("webpdf: enabling runtime events: %w", err)
	}
	if err := network.Enable().Do(ctx); err != nil {
		return fmt.Errorf("webpdf: enabling network events: %w", err)
	}
	if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: enabling lifecycle events: %w", err)
	}
	return nil
}

func (s *session) emulateDevice(ctx context.Context) error {
	if err := emulation.SetUserAgentOverride(userAgent).WithAcceptLanguage(locale).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: setting user agent: %w", err)
	}
	if err := emulation.SetDeviceMetricsOverride(viewportWidth, viewportHeight, 1, false).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: setting viewport: %w", err)
	}
	if err := emulation.SetLocaleOverride().WithLocale(locale).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: setting locale: %w", err)
	}
	return nil
}

// navigate loads the page and waits for DOMContentLoaded. Running out of
// time is tolerated; failing to reach the site is not.
func (s *session) navigate(ctx context.Context) error {
	nctx, cancel := context.WithTimeout(ctx, s.timings.navigation)
	defer cancel()

	_, loader, errText, _, err := page.Navigate(s.url).Do(nctx)
	switch {
	case timedOut(ctx, err):
		s.degrade(StepGoto, err, "[goto] TIMEOUT on domcontentloaded")
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", ErrNavigation, err)
	case errText != "":
		return fmt.Errorf("%w: %s", ErrNavigation, errText)
	}
	s.loader = loader
	s.life.adopt(loader)

	if err := s.life.wait(nctx, loader, lifecycleDOMContentLoaded); err != nil {
		if timedOut(ctx, err) {
			s.degrade(StepGoto, err, "[goto] TIMEOUT on domcontentloaded")
			return nil
		}
		return err
	}
	if line, ok := s.events.documentResponse(loader); ok {
		s.journal.Add(line)
	}
	s.ok(StepGoto)
	return nil
}

// waitNetworkIdle waits on whatever document the main frame shows now, so
// a redirect by script or meta refresh after DOMContentLoaded is followed.
func (s *session) waitNetworkIdle(ctx context.Context) error {
	wctx, cancel := context.WithTimeout(ctx, s.timings.networkIdle)
	defer cancel()
	if err := s.life.waitCurrent(wctx, lifecycleNetworkIdle); err != nil {
		if timedOut(ctx, err) {
			s.degrade(StepLoadState, err, "[load_state] TIMEOUT on networkidle")
			return nil
		}
		return err
	}
	s.ok(StepLoadState)
	return nil
}

// scroll wheels down the page a few times so lazy content gets loaded.
func (s *session) scroll(ctx context.Context) error {
	for i := 0; i < scrollSteps; i++ {
		err := input.DispatchMouseEvent(input.MouseWheel, viewportWidth/2, viewportHeight/2).
			WithDeltaX(0).
			WithDeltaY(scrollDelta).
			Do(ctx)
		if err == nil {
			err = chromedp.Sleep(s.timings.scrollPause).Do(ctx)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.degrade(StepScroll, err, fmt.Sprintf("[scroll] %v", err))
			return nil
		}
	}
	s.ok(StepScroll)
	return nil
}

func (s *session) screenshot(ctx context.Context) error {
	if err := emulation.SetEmulatedMedia().WithMedia(MediaScreen).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: emulating screen media: %w", err)
	}
	if err := chromedp.Sleep(s.timings.settle).Do(ctx); err != nil {
		return err
	}

	var buf []byte
	if err := chromedp.FullScreenshot(&buf, 100).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: screenshot: %w", err)
	}
	if err := os.WriteFile(s.arts.Screenshot, buf, 0o644); err != nil {
		return fmt.Errorf("webpdf: writing screenshot: %w", err)
	}
	s.ok(StepScreenshot)
	return nil
}

func (s *session) dumpHTML(ctx context.Context) error {
	doc, err := s.outerHTML(ctx)
	if err == nil {
		err = os.WriteFile(s.arts.HTML, []byte(doc), 0o644)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.degrade(StepHTML, err, fmt.Sprintf("[html] failed: %v", err))
		return nil
	}

	s.journal.Addf("[html] saved %s (%d chars)", filepath.Base(s.arts.HTML), runeCount(doc))
	if sum, err := summarizeHTML(doc); err == nil {
		s.journal.Addf("[html] title %q, %d chars of visible body text", sum.Title, sum.TextChars)
	}
	s.ok(StepHTML)
	return nil
}

func (s *session) outerHTML(ctx context.Context) (string, error) {
	root, err := dom.GetDocument().Do(ctx)
	if err != nil {
		return "", err
	}
	return dom.GetOuterHTML().WithNodeID(root.NodeID).Do(ctx)
}

func (s *session) injectPrintOverride(ctx context.Context) error {
	var added bool
	script := fmt.Sprintf(addStyleScript, strconv.Quote(printOverrideCSS))
	if err := chromedp.Evaluate(script, &added).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: injecting print style: %w", err)
	}
	s.ok(StepStyle)
	return nil
}

func (s *session) printPDF(ctx context.Context) error {
	if err := emulation.SetEmulatedMedia().WithMedia(s.pdfMedia).Do(ctx); err != nil {
		return fmt.Errorf("webpdf: emulating %s media: %w", s.pdfMedia, err)
	}
	buf, _, err := s.pageCfg.printParams().Do(ctx)
	if err != nil {
		return fmt.Errorf("webpdf: printing PDF: %w", err)
	}
	if err := os.WriteFile(s.arts.PDF, buf, 0o644); err != nil {
		return fmt.Errorf("webpdf: writing PDF: %w", err)
	}
	s.pdf = buf
	s.ok(StepPDF)
	return nil
}
