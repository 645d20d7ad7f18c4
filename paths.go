package webpdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Artifacts lists the files produced by one capture. All four live in the
// same directory and share the PDF's stem.
type Artifacts struct {
	PDF        string
	Screenshot string
	HTML       string
	Log        string
}

// ArtifactsFor resolves out to an absolute path and derives the debug
// file names from it. "out/site.pdf" yields site_debug.png,
// site_debug.html and site_debug.log next to out/site.pdf.
func ArtifactsFor(out string) (Artifacts, error) {
	abs, err := filepath.Abs(out)
	if err != nil {
		return Artifacts{}, fmt.Errorf("webpdf: resolving path: %w", err)
	}
	dir := filepath.Dir(abs)
	stem := fileStem(filepath.Base(abs))
	return Artifacts{
		PDF:        abs,
		Screenshot: filepath.Join(dir, stem+"_debug.png"),
		HTML:       filepath.Join(dir, stem+"_debug.html"),
		Log:        filepath.Join(dir, stem+"_debug.log"),
	}, nil
}

// fileStem strips the last extension. A leading dot does not start an
// extension and neither does a trailing one, so ".pdf" and "page." are
// their own stems.
func fileStem(base string) string {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return base
	}
	return base[:i]
}

// Prepare creates the destination directory.
func (a Artifacts) Prepare() error {
	if err := os.MkdirAll(filepath.Dir(a.PDF), 0o755); err != nil {
		return fmt.Errorf("webpdf: creating output directory: %w", err)
	}
	return nil
}

// Print writes one status line per artifact to w.
func (a Artifacts) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "PDF: %s\nSCREENSHOT: %s\nHTML: %s\nLOG: %s\n",
		a.PDF, a.Screenshot, a.HTML, a.Log)
	return err
}
