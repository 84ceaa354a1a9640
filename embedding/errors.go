package embedding

import "errors"

var (
	// ErrNilClient is returned when no embedding client is provided.
	ErrNilClient = errors.New("embedding client is required")

	// ErrInvalidBudget is returned when the monthly budget is not positive.
	ErrInvalidBudget = errors.New("monthly budget must be greater than 0")

	// ErrInvalidBatchSize is returned when the sub-batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")
)
