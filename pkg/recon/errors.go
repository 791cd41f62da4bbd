package recon

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is returned by callers when the authoritative
// transaction list cannot be fetched at all; it is the only condition that
// aborts a reconciliation pass.
var ErrSourceUnavailable = errors.New("authoritative transaction source unavailable")

// RecordError describes a single record that failed normalization. Passes
// skip such records and continue; they never abort on one bad row.
type RecordError struct {
	Line   int
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record line %d field %s: %s", e.Line, e.Field, e.Reason)
}
