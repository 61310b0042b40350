package redisbloom

import "errors"

var (
	ErrNoName         = errors.New("a filter name is required")
	ErrNegativeTTL    = errors.New("the filter time to live must not be negative")
	ErrNotInitialized = errors.New("the filter has no configuration in the store")
	ErrBatchFailure   = errors.New("the store returned the wrong number of results for an issued batch")
	ErrInvalidConfig  = errors.New("the stored configuration is missing fields or unparseable")
)
