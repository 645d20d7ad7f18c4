package webpdf

import (
	"io"
	"time"
)

// StepStatus tells whether a capture step completed normally.
type StepStatus int

const (
	// StepOK means the step did everything it set out to do.
	StepOK StepStatus = iota
	// StepDegraded means the step hit a tolerated failure, such as a
	// timeout, and the capture went on with best-effort output.
	StepDegraded
)

func (s StepStatus) String() string {
	switch s {
	case StepOK:
		return "ok"
	case StepDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// StepResult is the outcome of one step of the capture sequence.
type StepResult struct {
	Name   string
	Status StepStatus
	Err    error
}

// Report describes a finished capture. It is only returned when every
// artifact was written; degraded steps are listed in Steps.
type Report struct {
	URL       string
	Artifacts Artifacts
	Steps     []StepResult
	Log       []string
	Elapsed   time.Duration

	pdf []byte
}

// Degraded reports whether any step fell back to best-effort output.
func (r *Report) Degraded() bool {
	return len(r.DegradedSteps()) > 0
}

// DegradedSteps returns the steps that hit a tolerated failure.
func (r *Report) DegradedSteps() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Status == StepDegraded {
			out = append(out, s)
		}
	}
	return out
}

// Step returns the result of the named step.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// PDF returns the generated PDF content, as written to Artifacts.PDF.
func (r *Report) PDF() []byte {
	return r.pdf
}

// WriteTo writes the PDF content to w. It implements [io.WriterTo].
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.pdf)
	return int64(n), err
}
