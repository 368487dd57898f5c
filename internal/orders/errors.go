package orders

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrDuplicateOrder      = errors.New("order id already exists")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrInvalidPriority     = errors.New("priority must be high, normal or low")
	ErrEmptyNote           = errors.New("note text is required")
	ErrEmptyTrackingNumber = errors.New("tracking number is required")
)
