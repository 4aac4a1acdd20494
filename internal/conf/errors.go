package conf

import "errors"

// Sentinel configuration errors. Both are fatal at startup.
var (
	ErrMissingConfig = errors.New("missing required configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)
