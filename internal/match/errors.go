package match

import "errors"

// Sentinel errors for the failure classes the driver can surface. Callers
// classify with errors.Is; wrapped messages carry the detail.
var (
	// ErrInvalidOption reports an unusable option value at the call
	// boundary, before any work starts.
	ErrInvalidOption = errors.New("invalid option")

	// ErrWorkerFailed reports a panic caught inside a matcher worker. Only
	// the first observed failure is surfaced.
	ErrWorkerFailed = errors.New("matcher worker failed")

	// ErrSourceFailed reports a failure raised by the item producer.
	ErrSourceFailed = errors.New("item source failed")

	// ErrInternal reports a matcher invariant violation, such as a known
	// winner failing to re-match during position collection.
	ErrInternal = errors.New("internal error")
)
