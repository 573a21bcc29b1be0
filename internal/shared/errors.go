package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyQueue occurs when a submission is attempted with no sale lines.
	ErrEmptyQueue = errors.New("sales queue is empty")
	// ErrInvalidQuantity occurs when a sale line carries a zero or negative quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)
