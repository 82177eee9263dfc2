package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"

	// OrderNotFoundError represents an error when an order id is not present
	// in the active order table.
	OrderNotFoundError ErrorCode = "order_not_found"
	// PriceLevelMissingError represents an error when a price level expected
	// by the matching path does not exist in the index.
	PriceLevelMissingError ErrorCode = "price_level_missing"
	// EmptyQueueError represents an error when a price level holds an empty
	// order queue, which the book never allows.
	EmptyQueueError ErrorCode = "empty_queue"
	// InvalidOrderError represents an error when an order request fails
	// validation before admission.
	InvalidOrderError ErrorCode = "invalid_order"
)

// CodeEquals checks whether a given `error` carries a specific code.
func CodeEquals(err error, code ErrorCode) bool {
	tracer, ok := err.(*ErrorTracer)
	if !ok {
		return false
	}

	return tracer.Code == code
}
