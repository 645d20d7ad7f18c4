package webpdf

import "errors"

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Capturer].
	ErrClosed = errors.New("webpdf: capturer is closed")

	// ErrNavigation wraps navigation failures other than a timeout, such as
	// an unresolvable host or a refused connection.
	ErrNavigation = errors.New("webpdf: navigation failed")

	// ErrInvalidMedia is returned by [NewCapturer] for an unknown PDF media type.
	ErrInvalidMedia = errors.New("webpdf: invalid media type")
)
