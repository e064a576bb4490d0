package extraction

import "fmt"

// ErrorKind classifies why a raw capture could not become a value
type ErrorKind string

const (
	KindEmpty             ErrorKind = "empty"
	KindMalformed         ErrorKind = "malformed"
	KindOutOfRange        ErrorKind = "out_of_range"
	KindInvalidIdentifier ErrorKind = "invalid_identifier"
	KindUnrecognizedDate  ErrorKind = "unrecognized_date"
)

// ParseError reports a capture that failed parsing or validation. The field
// becomes invalid; the error never aborts a document.
type ParseError struct {
	Field  string
	Kind   ErrorKind
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s value %q", e.Field, e.Kind, e.Raw)
	}
	return fmt.Sprintf("%s: %s value %q: %s", e.Field, e.Kind, e.Raw, e.Reason)
}

func newParseError(field string, kind ErrorKind, raw, reason string) *ParseError {
	return &ParseError{Field: field, Kind: kind, Raw: raw, Reason: reason}
}
