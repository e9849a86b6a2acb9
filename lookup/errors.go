package lookup

import "errors"

// ErrInvalidFormat is the sentinel wrapped by every FormatError.
var ErrInvalidFormat = errors.New("lookup: invalid format")

// FormatError reports structural corruption that prevents even the tolerant
// decoder from producing a table, such as a header shorter than 16 bytes.
// Damage past the header is recovered instead and surfaces through
// Table.Complete.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "lookup: invalid format: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}
