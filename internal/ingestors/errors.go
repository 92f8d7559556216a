package ingestors

import (
	"errors"
)

// Setup errors. Either one aborts startup; no partial log is returned.
var (
	ErrSourceUnreadable = errors.New("log source unreadable")
	ErrMalformedHeader  = errors.New("malformed log header")
	ErrUnsupportedKind  = errors.New("unsupported log source")
)

// Exclusion reasons. A record excluded for one of these is logged and counted, never fatal.
const (
	reasonMissingTimestamp  = "missing_timestamp"
	reasonInvalidTimestamp  = "invalid_timestamp"
	reasonTimestampRange    = "timestamp_out_of_range"
	reasonMissingDuration   = "missing_duration"
	reasonInvalidDuration   = "invalid_duration"
	reasonNegativeDuration  = "negative_duration"
	reasonNonFiniteDuration = "non_finite_duration"
	reasonMissingDatabase   = "missing_database"
	reasonMissingOperation  = "missing_operation"
	reasonMalformedRow      = "malformed_row"
)
