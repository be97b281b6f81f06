package domain

import "errors"

var (
	// ErrEmptyReferenceSet is returned when a matcher is given no usable reference records.
	// It signals an upstream master-data problem and must not be reported as a per-item miss.
	ErrEmptyReferenceSet = errors.New("reference set is empty")

	// ErrInvalidRecord is returned when a reference record fails load-time validation
	ErrInvalidRecord = errors.New("invalid reference record")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrExtractionFailed is returned when the statement extraction service fails
	ErrExtractionFailed = errors.New("statement extraction failed")

	// ErrExtractorUnavailable is returned when no extraction service is configured
	ErrExtractorUnavailable = errors.New("statement extraction is not configured")

	// ErrUnsupportedFile is returned for statement files the extractor cannot read
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrStatementExists is returned when a statement for the stockist and month is already stored
	ErrStatementExists = errors.New("statement already exists")
)
