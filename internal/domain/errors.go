package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when the listing page cannot be
	// fetched or parsed. Fatal to the whole comparison run.
	ErrSourceUnavailable = errors.New("listing source unavailable")

	// ErrMatchNotFound is returned when every search-term variant has been
	// tried against the catalog and none produced a candidate.
	ErrMatchNotFound = errors.New("no catalog match found")

	// ErrQuoteUnavailable is returned when the price lookup for a resolved
	// entry fails. Recovered per item; never aborts a run.
	ErrQuoteUnavailable = errors.New("price quote unavailable")

	// ErrCatalogAPIFailure is returned when a catalog API request fails.
	ErrCatalogAPIFailure = errors.New("catalog API request failed")

	// ErrCacheMiss is returned when data is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)
