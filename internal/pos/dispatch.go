package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tillpoint-pos/tillpoint/internal/catalog"
	"github.com/tillpoint-pos/tillpoint/internal/checkout"
	"github.com/tillpoint-pos/tillpoint/internal/salesqueue"
	"github.com/tillpoint-pos/tillpoint/internal/shared"
)

// ActionKind tags a cashier intent. Each UI binding maps to exactly one
// kind, so only one branch ever fires per event.
type ActionKind string

const (
	// ActionSearch refreshes the catalog from a name query.
	ActionSearch ActionKind = "search"
	// ActionScan looks up a barcode and queues one unit.
	ActionScan ActionKind = "scan"
	// ActionAdd queues a catalog product.
	ActionAdd ActionKind = "add"
	// ActionRemove drops a sale line.
	ActionRemove ActionKind = "remove"
	// ActionEditQuantity overwrites a line quantity from a direct edit.
	ActionEditQuantity ActionKind = "edit_quantity"
	// ActionSubmit finalises the queue as a transaction.
	ActionSubmit ActionKind = "submit"
)

// Action is one routed cashier intent.
type Action struct {
	Kind      ActionKind
	Query     string
	Barcode   string
	ProductID int64
	Quantity  int64
}

// Result is what a dispatched action changed and what to tell the cashier.
type Result struct {
	Notice         *shared.Notification
	GrandTotal     string
	CatalogChanged bool
	QueueChanged   bool
}

// CatalogPort abstracts catalog lookups for the dispatcher.
type CatalogPort interface {
	Search(ctx context.Context, query string) ([]catalog.Product, error)
	Lookup(ctx context.Context, code string) (catalog.Product, error)
	Invalidate(ctx context.Context)
}

// SubmitterPort abstracts transaction submission.
type SubmitterPort interface {
	Submit(ctx context.Context, lines []salesqueue.QueueLine) error
}

// ActionFunc handles one action kind. The session is already locked.
type ActionFunc func(ctx context.Context, sess *Session, action Action) (Result, error)

// Dispatcher routes actions through an explicit table keyed by kind and
// recomputes the grand total synchronously after every queue mutation,
// before the result is returned.
type Dispatcher struct {
	table     map[ActionKind]ActionFunc
	catalog   CatalogPort
	submitter SubmitterPort
	logger    *slog.Logger
}

// NewDispatcher builds the dispatch table.
func NewDispatcher(catalogPort CatalogPort, submitter SubmitterPort, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		catalog:   catalogPort,
		submitter: submitter,
		logger:    logger,
	}
	d.table = map[ActionKind]ActionFunc{
		ActionSearch:       d.search,
		ActionScan:         d.scan,
		ActionAdd:          d.add,
		ActionRemove:       d.remove,
		ActionEditQuantity: d.editQuantity,
		ActionSubmit:       d.submit,
	}
	return d
}

// Dispatch executes the action against the session under its lock.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *Session, action Action) (Result, error) {
	fn, ok := d.table[action.Kind]
	if !ok {
		return Result{}, fmt.Errorf("pos: unknown action kind %q", action.Kind)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch(time.Now())

	result, err := fn(ctx, sess, action)
	if err != nil {
		return Result{}, err
	}
	if result.GrandTotal == "" {
		result.GrandTotal = sess.Queue.FormattedGrandTotal()
	}
	return result, nil
}

func (d *Dispatcher) search(ctx context.Context, sess *Session, action Action) (Result, error) {
	query := strings.TrimSpace(action.Query)
	seq := sess.Catalog.NextSeq()
	products, err := d.catalog.Search(ctx, query)
	if err != nil {
		// Lookup failures are logged only; the prior catalog stays up.
		d.logger.Error("catalog search", slog.String("query", query), slog.Any("error", err))
		return Result{}, nil
	}
	applied := sess.Catalog.Replace(seq, products)
	if !applied {
		d.logger.Debug("discarded stale search response", slog.String("query", query))
	}
	return Result{CatalogChanged: applied}, nil
}

func (d *Dispatcher) scan(ctx context.Context, sess *Session, action Action) (Result, error) {
	code := strings.TrimSpace(action.Barcode)
	if code == "" {
		return Result{}, nil
	}
	product, err := d.catalog.Lookup(ctx, code)
	if err != nil {
		// A miss is recoverable: the cashier re-scans. Never surfaced.
		if errors.Is(err, shared.ErrNotFound) {
			d.logger.Info("barcode not found", slog.String("barcode", code))
		} else {
			d.logger.Error("barcode lookup", slog.String("barcode", code), slog.Any("error", err))
		}
		return Result{}, nil
	}
	if product.OutOfStock() {
		return Result{Notice: shared.Warnf("%s is out of stock!", product.GenericName)}, nil
	}
	return d.queueProduct(sess, product, 1)
}

func (d *Dispatcher) add(_ context.Context, sess *Session, action Action) (Result, error) {
	product, ok := sess.Catalog.Get(action.ProductID)
	if !ok {
		return Result{Notice: shared.Warnf("Product is no longer on the catalog.")}, nil
	}
	if product.OutOfStock() {
		return Result{Notice: shared.Warnf("%s is out of stock!", product.GenericName)}, nil
	}
	requested := action.Quantity
	if requested < 1 {
		requested = 1
	}
	return d.queueProduct(sess, product, requested)
}

func (d *Dispatcher) queueProduct(sess *Session, product catalog.Product, requested int64) (Result, error) {
	available := product.Quantity
	if displayed, ok := sess.Catalog.Available(product.ID); ok {
		available = displayed
	}
	line := salesqueue.QueueLine{
		ProductID:   product.ID,
		GenericName: product.GenericName,
		BrandName:   product.BrandName,
		UnitPrice:   product.SellingPrice,
	}
	if err := sess.Queue.AddOrIncrement(line, requested, available); err != nil {
		var stockErr *salesqueue.StockExceededError
		if errors.As(err, &stockErr) {
			return Result{Notice: shared.Warnf("Insufficient quantity in stock. Available quantity: %d", stockErr.Available)}, nil
		}
		return Result{}, err
	}
	return Result{QueueChanged: true}, nil
}

func (d *Dispatcher) remove(_ context.Context, sess *Session, action Action) (Result, error) {
	removed := sess.Queue.Remove(action.ProductID)
	return Result{QueueChanged: removed}, nil
}

func (d *Dispatcher) editQuantity(_ context.Context, sess *Session, action Action) (Result, error) {
	available, onCatalog := sess.Catalog.Available(action.ProductID)
	if !onCatalog {
		// Not displayed means nothing to clamp against.
		available = math.MaxInt64
	}
	line, clamped, err := sess.Queue.SetQuantity(action.ProductID, action.Quantity, available)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			d.logger.Warn("quantity edit for unknown line", slog.Int64("product", action.ProductID))
			return Result{}, nil
		}
		return Result{}, err
	}
	result := Result{QueueChanged: true}
	if clamped {
		result.Notice = shared.Warnf("Insufficient quantity in stock. Available quantity: %d", line.Quantity)
	}
	return result, nil
}

func (d *Dispatcher) submit(ctx context.Context, sess *Session, _ Action) (Result, error) {
	lines := sess.Queue.Lines()
	err := d.submitter.Submit(ctx, lines)
	if err == nil {
		sess.Queue.Clear()
		for _, line := range lines {
			sess.Catalog.Decrement(line.ProductID, line.Quantity)
		}
		d.catalog.Invalidate(ctx)
		return Result{
			GrandTotal:     salesqueue.ZeroTotal,
			QueueChanged:   true,
			CatalogChanged: true,
		}, nil
	}

	switch {
	case errors.Is(err, shared.ErrInvalidQuantity):
		return Result{Notice: shared.Warnf("Invalid quantity for some products!")}, nil
	case errors.Is(err, shared.ErrEmptyQueue):
		return Result{Notice: shared.Warnf("No products in the sales queue or quantity is 0!")}, nil
	}
	var rejected *checkout.RejectedError
	if errors.As(err, &rejected) {
		return Result{Notice: shared.Errorf("%s", rejected.Message)}, nil
	}
	d.logger.Error("submit transaction", slog.Any("error", err))
	return Result{Notice: shared.Errorf("An error occurred")}, nil
}
