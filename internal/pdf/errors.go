package pdf

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are neither PDF nor plain text
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoTextLayer is returned when a PDF carries no extractable text, typically a scan
	ErrNoTextLayer = errors.New("no text layer in PDF")
)
