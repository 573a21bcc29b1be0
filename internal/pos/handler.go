package pos

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tillpoint-pos/tillpoint/internal/view"
)

const sessionCookie = "tillpoint_session"

// ScreenConfig carries the submit trigger configuration injected into the
// rendered screen as data attributes.
type ScreenConfig struct {
	SubmitURL    string
	SubmitMethod string
}

// Handler binds terminal HTTP requests to dispatched actions and renders the
// screen projection.
type Handler struct {
	logger     *slog.Logger
	dispatcher *Dispatcher
	store      *Store
	templates  *view.Engine
	validate   *validator.Validate
	screen     ScreenConfig
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, dispatcher *Dispatcher, store *Store, templates *view.Engine, screen ScreenConfig) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if screen.SubmitURL == "" {
		screen.SubmitURL = "/pos/checkout"
	}
	if screen.SubmitMethod == "" {
		screen.SubmitMethod = http.MethodPost
	}
	return &Handler{
		logger:     logger,
		dispatcher: dispatcher,
		store:      store,
		templates:  templates,
		validate:   validator.New(),
		screen:     screen,
	}
}

// MountRoutes registers the POS routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Screen)
	r.Get("/catalog", h.Catalog)
	r.Get("/search", h.Search)
	r.Post("/scan", h.Scan)
	r.Post("/queue/add", h.Add)
	r.Post("/queue/remove", h.Remove)
	r.Post("/queue/quantity", h.EditQuantity)
	r.Post("/checkout", h.Submit)
}

// session loads the terminal session from the request cookie, creating one
// and setting the cookie when absent.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := h.store.Get(cookie.Value); ok {
			return sess
		}
	}
	sess := h.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return sess
}

// Screen renders the full POS page.
func (h *Handler) Screen(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.mu.Lock()
	data := view.ScreenData{
		Title:        "Tillpoint",
		Products:     sess.Catalog.Products(),
		Lines:        sess.Queue.Lines(),
		GrandTotal:   sess.Queue.FormattedGrandTotal(),
		SubmitURL:    h.screen.SubmitURL,
		SubmitMethod: h.screen.SubmitMethod,
	}
	sess.mu.Unlock()
	if err := h.templates.Render(w, "pages/pos.html", data); err != nil {
		h.logger.Error("render pos screen", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Catalog re-renders the currently displayed catalog snapshot without a new
// upstream search, e.g. after the optimistic stock decrement.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.mu.Lock()
	data := view.CatalogData{Products: sess.Catalog.Products()}
	sess.mu.Unlock()
	h.renderCatalog(w, data)
}

// Search refreshes the catalog from the name query.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	action := Action{Kind: ActionSearch, Query: r.URL.Query().Get("name")}
	if _, err := h.dispatcher.Dispatch(r.Context(), sess, action); err != nil {
		h.logger.Error("dispatch search", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	sess.mu.Lock()
	data := view.CatalogData{Products: sess.Catalog.Products()}
	sess.mu.Unlock()
	h.renderCatalog(w, data)
}

// Scan queues one unit of a scanned product.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	action := Action{Kind: ActionScan, Barcode: r.PostFormValue("barcode")}
	h.dispatchAndRenderQueue(w, r, sess, action)
}

type productForm struct {
	ProductID int64 `validate:"required,gt=0"`
}

func (h *Handler) bindProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("product_id")), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	if err := h.validate.Struct(productForm{ProductID: id}); err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// Add queues a catalog product, one unit unless a quantity is given.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	id, ok := h.bindProductID(w, r)
	if !ok {
		return
	}
	qty, _ := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("quantity")), 10, 64)
	h.dispatchAndRenderQueue(w, r, sess, Action{Kind: ActionAdd, ProductID: id, Quantity: qty})
}

// Remove drops a sale line.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	id, ok := h.bindProductID(w, r)
	if !ok {
		return
	}
	h.dispatchAndRenderQueue(w, r, sess, Action{Kind: ActionRemove, ProductID: id})
}

// EditQuantity overwrites a line quantity from a direct edit of the quantity
// cell. Non-numeric input counts as quantity zero.
func (h *Handler) EditQuantity(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	id, ok := h.bindProductID(w, r)
	if !ok {
		return
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("quantity")), 10, 64)
	if err != nil {
		qty = 0
	}
	h.dispatchAndRenderQueue(w, r, sess, Action{Kind: ActionEditQuantity, ProductID: id, Quantity: qty})
}

// Submit finalises the queue as a transaction.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.dispatchAndRenderQueue(w, r, sess, Action{Kind: ActionSubmit})
}

func (h *Handler) dispatchAndRenderQueue(w http.ResponseWriter, r *http.Request, sess *Session, action Action) {
	result, err := h.dispatcher.Dispatch(r.Context(), sess, action)
	if err != nil {
		h.logger.Error("dispatch", slog.String("kind", string(action.Kind)), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	sess.mu.Lock()
	data := view.QueueData{
		Notice:     result.Notice,
		Lines:      sess.Queue.Lines(),
		GrandTotal: result.GrandTotal,
	}
	sess.mu.Unlock()
	if err := h.templates.Render(w, "partials/queue.html", data); err != nil {
		h.logger.Error("render queue partial", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderCatalog(w http.ResponseWriter, data view.CatalogData) {
	if err := h.templates.Render(w, "partials/catalog_rows.html", data); err != nil {
		h.logger.Error("render catalog partial", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
