package salesqueue

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ZeroTotal is the displayed total for an empty queue, used when resetting
// after a cleared transaction without re-reading lines.
const ZeroTotal = "0.00"

var printer = message.NewPrinter(language.BritishEnglish)

// FormatAmount renders a monetary amount with two decimals and en-GB
// thousands separators, e.g. 2000 -> "2,000.00".
func FormatAmount(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// GrandTotal sums every line subtotal from scratch. No incremental
// accumulator exists; the queue lines are the single source of truth.
func (q *Queue) GrandTotal() float64 {
	var sum float64
	for _, line := range q.lines {
		sum += line.Subtotal()
	}
	return sum
}

// FormattedGrandTotal renders the grand total for display.
func (q *Queue) FormattedGrandTotal() string {
	return FormatAmount(q.GrandTotal())
}
