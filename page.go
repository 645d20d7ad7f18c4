package webpdf

import "github.com/chromedp/cdproto/page"

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// Standard paper sizes.
var (
	A3      = PageSize{Width: 29.7, Height: 42.0}
	A4      = PageSize{Width: 21.0, Height: 29.7}
	A5      = PageSize{Width: 14.8, Height: 21.0}
	Letter  = PageSize{Width: 21.59, Height: 27.94}
	Legal   = PageSize{Width: 21.59, Height: 35.56}
	Tabloid = PageSize{Width: 27.94, Height: 43.18}
)

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

// Margin represents page margins in centimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(cm float64) Margin {
	return Margin{Top: cm, Right: cm, Bottom: cm, Left: cm}
}

// PageConfig describes how the captured page is printed.
type PageConfig struct {
	Size              PageSize
	Orientation       Orientation
	Margin            Margin
	Scale             float64
	PrintBackground   bool
	PreferCSSPageSize bool
}

// DefaultPageConfig returns the capture profile: A4 portrait, 10 mm
// margins, scale 1.0, backgrounds printed, and any CSS @page size
// taking precedence over A4.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:              A4,
		Orientation:       Portrait,
		Margin:            UniformMargin(1.0),
		Scale:             1.0,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

func cmToInches(cm float64) float64 {
	return cm / 2.54
}

// paperInches returns the paper width and height in inches,
// accounting for orientation.
func (p PageConfig) paperInches() (width, height float64) {
	w, h := cmToInches(p.Size.Width), cmToInches(p.Size.Height)
	if p.Orientation == Landscape {
		return h, w
	}
	return w, h
}

// printParams builds the Page.printToPDF call for p.
func (p PageConfig) printParams() *page.PrintToPDFParams {
	width, height := p.paperInches()
	return page.PrintToPDF().
		WithPaperWidth(width).
		WithPaperHeight(height).
		WithMarginTop(cmToInches(p.Margin.Top)).
		WithMarginRight(cmToInches(p.Margin.Right)).
		WithMarginBottom(cmToInches(p.Margin.Bottom)).
		WithMarginLeft(cmToInches(p.Margin.Left)).
		WithScale(p.Scale).
		WithPrintBackground(p.PrintBackground).
		WithLandscape(p.Orientation == Landscape).
		WithPreferCSSPageSize(p.PreferCSSPageSize)
}
