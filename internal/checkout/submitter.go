package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tillpoint-pos/tillpoint/internal/salesqueue"
	"github.com/tillpoint-pos/tillpoint/internal/shared"
)

// GenericRejectionMessage is shown when the server rejects a transaction
// without supplying its own error message.
const GenericRejectionMessage = "Insufficient quantity in stock!"

// ErrUnavailable indicates a transport or response-parse failure while
// talking to the transaction endpoint. The queue is left intact for a manual
// retry; nothing is retried automatically.
var ErrUnavailable = errors.New("transaction service unavailable")

// RejectedError carries the server-side rejection message, e.g. when stock
// changed concurrently between search and submit.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction rejected: %s", e.Message)
}

// LineItem is one submitted sale line.
type LineItem struct {
	ID           int64   `json:"id" validate:"required,gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
	Quantity     int64   `json:"quantity" validate:"required,gt=0"`
}

type transactionPayload struct {
	Products []LineItem `json:"products"`
}

// Submitter finalises the sales queue against the transaction endpoint. The
// endpoint URL and method are injected configuration, never hard-coded.
type Submitter struct {
	url        string
	method     string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewSubmitter builds Submitter.
func NewSubmitter(url, method string, timeout time.Duration, logger *slog.Logger) *Submitter {
	if method == "" {
		method = http.MethodPost
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		url:    url,
		method: method,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		validate: validator.New(),
		logger:   logger,
	}
}

// Submit validates the queued lines and posts them as one transaction.
// Validation failures abort before any network I/O. On success the caller
// clears the queue and applies the optimistic stock decrement.
func (s *Submitter) Submit(ctx context.Context, lines []salesqueue.QueueLine) error {
	items := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		item := LineItem{ID: line.ProductID, SellingPrice: line.UnitPrice, Quantity: line.Quantity}
		if err := s.validate.Struct(item); err != nil {
			return fmt.Errorf("checkout: line %d: %w", line.ProductID, shared.ErrInvalidQuantity)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return shared.ErrEmptyQueue
	}

	body, err := json.Marshal(transactionPayload{Products: items})
	if err != nil {
		return fmt.Errorf("checkout: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, s.method, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("checkout: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("submit transaction", slog.Any("error", err))
		return fmt.Errorf("checkout: %w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Response body carries the created transaction; only the status
		// matters here.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var rejection struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rejection); err != nil {
		s.logger.Error("decode rejection", slog.Int("status", resp.StatusCode), slog.Any("error", err))
		return fmt.Errorf("checkout: %w: status %d", ErrUnavailable, resp.StatusCode)
	}
	message := rejection.Error
	if message == "" {
		message = GenericRejectionMessage
	}
	return &RejectedError{Message: message}
}
