package salesqueue

import (
	"errors"
	"fmt"
)

// QueueLine is one in-progress sale line. The unit price is snapshotted when
// the product is first added; the subtotal is always derived, never stored.
type QueueLine struct {
	ProductID   int64
	GenericName string
	BrandName   string
	UnitPrice   float64
	Quantity    int64
}

// Subtotal derives the line total.
func (l QueueLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// ErrStockExceeded indicates a requested quantity reached or exceeded the
// displayed available stock.
var ErrStockExceeded = errors.New("stock exceeded")

// StockExceededError carries the available quantity for the warning shown to
// the cashier.
type StockExceededError struct {
	ProductID int64
	Available int64
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("insufficient quantity in stock for product %d, available: %d", e.ProductID, e.Available)
}

// Is matches ErrStockExceeded.
func (e *StockExceededError) Is(target error) bool {
	return target == ErrStockExceeded
}
