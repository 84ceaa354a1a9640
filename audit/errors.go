package audit

import "errors"

var (
	// ErrNilScanResult is returned when a report is requested for a nil scan.
	ErrNilScanResult = errors.New("scan result is required")

	// ErrNoSamples is returned when an estimate is requested without sample
	// texts.
	ErrNoSamples = errors.New("at least one sample text is required")

	// ErrInvalidVolume is returned when the projected weekly item count is
	// not positive.
	ErrInvalidVolume = errors.New("items per week must be positive")

	// ErrInvalidBudget is returned when the monthly budget is not positive.
	ErrInvalidBudget = errors.New("monthly budget must be positive")
)
