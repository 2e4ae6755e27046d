package dump

import "errors"

// Dump errors.
var (
	// ErrReadFailed is returned when no feature of the node could be read.
	ErrReadFailed = errors.New("attribute read failed")

	// ErrEmptyLayout is returned when there is nothing to read.
	ErrEmptyLayout = errors.New("layout has no features")

	// ErrDuplicateEndpoint is returned when a node lists an endpoint twice.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint")

	// ErrInvalidEndpoint is returned for endpoint keys that are not IDs.
	ErrInvalidEndpoint = errors.New("invalid endpoint id")

	// ErrInvalidDocument is returned when a dump is not a JSON object.
	ErrInvalidDocument = errors.New("invalid dump document")

	// ErrInvalidConfig is returned for configuration values out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)
