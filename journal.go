package webpdf

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Journal is the ordered, append-only debug log of a single capture.
// Event listeners and the capture sequence append to it concurrently;
// lines are kept in arrival order.
type Journal struct {
	mu    sync.Mutex
	lines []string
}

// Add appends one line.
func (j *Journal) Add(line string) {
	j.mu.Lock()
	j.lines = append(j.lines, line)
	j.mu.Unlock()
}

// Addf appends one formatted line.
func (j *Journal) Addf(format string, args ...any) {
	j.Add(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the journal.
func (j *Journal) Lines() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.lines))
	copy(out, j.lines)
	return out
}

// Len returns the number of lines.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.lines)
}

// String joins the lines with newlines, without a trailing newline.
func (j *Journal) String() string {
	return strings.Join(j.Lines(), "\n")
}

// WriteFile writes the journal to path. An empty journal produces an
// empty file.
func (j *Journal) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(j.String()), 0o644); err != nil {
		return fmt.Errorf("webpdf: writing log: %w", err)
	}
	return nil
}
