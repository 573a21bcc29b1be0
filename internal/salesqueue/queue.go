package salesqueue

import (
	"github.com/tillpoint-pos/tillpoint/internal/shared"
)

// Queue is the ordered collection of sale lines for one in-progress
// transaction. It holds at most one line per product identifier. The queue
// is transient: lines are removed one by one or cleared wholesale after a
// successful submission, and nothing is ever persisted.
//
// Queue is not safe for concurrent use; the owning terminal session
// serialises access.
type Queue struct {
	lines []QueueLine
	index map[int64]int
}

// NewQueue builds an empty queue.
func NewQueue() *Queue {
	return &Queue{index: make(map[int64]int)}
}

// AddOrIncrement adds a sale line, or raises the quantity of the existing
// line for the same product. The whole operation aborts with a
// StockExceededError when the new total would reach or exceed the available
// quantity; no partial increment happens.
func (q *Queue) AddOrIncrement(line QueueLine, requested, available int64) error {
	if requested < 1 {
		return shared.ErrInvalidQuantity
	}
	if i, ok := q.index[line.ProductID]; ok {
		newQty := q.lines[i].Quantity + requested
		if WouldExceed(available, newQty) {
			return &StockExceededError{ProductID: line.ProductID, Available: available}
		}
		q.lines[i].Quantity = newQty
		return nil
	}
	if WouldExceed(available, requested) {
		return &StockExceededError{ProductID: line.ProductID, Available: available}
	}
	line.Quantity = requested
	q.lines = append(q.lines, line)
	q.index[line.ProductID] = len(q.lines) - 1
	return nil
}

// SetQuantity overwrites the quantity of an existing line, typically from a
// direct edit of the quantity cell. Values above the available stock are
// clamped, not rejected; the caller surfaces the warning. Non-numeric input
// is coerced to zero before this call.
func (q *Queue) SetQuantity(productID, qty, available int64) (QueueLine, bool, error) {
	i, ok := q.index[productID]
	if !ok {
		return QueueLine{}, false, shared.ErrNotFound
	}
	if qty < 0 {
		qty = 0
	}
	clamped := false
	if qty > available {
		qty = available
		clamped = true
	}
	q.lines[i].Quantity = qty
	return q.lines[i], clamped, nil
}

// Remove deletes the line for the given product. It reports false when no
// such line exists; removal of an absent line is a no-op.
func (q *Queue) Remove(productID int64) bool {
	i, ok := q.index[productID]
	if !ok {
		return false
	}
	q.lines = append(q.lines[:i], q.lines[i+1:]...)
	delete(q.index, productID)
	for j := i; j < len(q.lines); j++ {
		q.index[q.lines[j].ProductID] = j
	}
	return true
}

// Clear drops every line, used after a successful transaction.
func (q *Queue) Clear() {
	q.lines = q.lines[:0]
	q.index = make(map[int64]int)
}

// Find returns the line for a product identifier.
func (q *Queue) Find(productID int64) (QueueLine, bool) {
	i, ok := q.index[productID]
	if !ok {
		return QueueLine{}, false
	}
	return q.lines[i], true
}

// Lines returns a copy of the queued lines in insertion order.
func (q *Queue) Lines() []QueueLine {
	result := make([]QueueLine, len(q.lines))
	copy(result, q.lines)
	return result
}

// Len reports the number of queued lines.
func (q *Queue) Len() int {
	return len(q.lines)
}
