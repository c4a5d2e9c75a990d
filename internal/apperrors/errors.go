package apperrors

import "errors"

// Request-fatal errors. These abort the operation that hit them and surface
// to the caller with diagnostic detail.
var (
	// ErrSourceUnavailable indicates the raw holdings document could not be
	// loaded at all. Aggregation cannot produce a snapshot without it.
	ErrSourceUnavailable = errors.New("holdings source unavailable")
)

// Per-record and per-symbol errors. These are absorbed locally: a single bad
// record or failed fetch never aborts the snapshot or the refresh.
var (
	// ErrRecordMalformed indicates a holdings record is missing required
	// fields. The record is skipped and counted, aggregation continues.
	ErrRecordMalformed = errors.New("malformed holdings record")

	// ErrPriceUnresolved indicates no live price or constant exists for a
	// symbol. Surfaces only as the -1 sentinel in computed values.
	ErrPriceUnresolved = errors.New("price unresolved")

	// ErrProviderFetchFailed indicates a quote provider returned an error or
	// a non-positive price for one symbol. The symbol is omitted from the
	// refreshed store.
	ErrProviderFetchFailed = errors.New("provider fetch failed")

	// ErrProviderTimeout indicates a quote fetch exceeded its deadline.
	// Treated exactly like ErrProviderFetchFailed.
	ErrProviderTimeout = errors.New("provider fetch timed out")
)

// Validation errors for API parameters.
var (
	// ErrSymbolRequired indicates a required symbol parameter is empty.
	ErrSymbolRequired = errors.New("symbol is required")

	// ErrInvalidSymbol indicates a symbol parameter contains characters
	// outside the allowed ticker alphabet.
	ErrInvalidSymbol = errors.New("invalid symbol format")
)
