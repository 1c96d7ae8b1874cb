package prices

import "errors"

// Sentinel errors for the two failure classes a poll cycle distinguishes.
// Fetch failures mean the page never arrived; extraction failures mean it
// arrived but did not look like the price page. Neither mutates any state.
var (
	ErrFetchFailed   = errors.New("price page fetch failed")
	ErrExtractFailed = errors.New("price extraction failed")
)

// Extraction failure causes, wrapped under ErrExtractFailed by Service.
var (
	ErrPriceTableMissing = errors.New("price table not found in document")
	ErrDateMissing       = errors.New("current-date element not found in document")
	ErrRowMismatch       = errors.New("price table rows do not match fuel catalog")
)
