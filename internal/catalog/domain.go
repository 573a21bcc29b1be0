package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date serialised as an ISO "2006-01-02" string.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts ISO dates and RFC3339 timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("catalog: invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the ISO date form.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// MonthYear renders the human readable month/year form used on the catalog.
func (d Date) MonthYear() string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format("January 2006")
}

// Product is a catalog row as served by the upstream inventory API. The
// quantity is the authoritative stock as last fetched; it is decremented
// locally after a successful transaction but never merged across searches.
type Product struct {
	ID           int64   `json:"id"`
	GenericName  string  `json:"generic_name"`
	BrandName    string  `json:"brand_name"`
	SellingPrice float64 `json:"selling_price"`
	Quantity     int64   `json:"quantity"`
	ExpiryDates  []Date  `json:"expiry_dates"`
}

// OutOfStock reports whether the product has no sellable quantity.
func (p Product) OutOfStock() bool {
	return p.Quantity <= 0
}
