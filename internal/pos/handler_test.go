package pos

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint-pos/tillpoint/internal/catalog"
	"github.com/tillpoint-pos/tillpoint/internal/view"
)

type terminal struct {
	t      *testing.T
	router chi.Router
	cookie *http.Cookie
}

func newTerminal(t *testing.T, fc *fakeCatalog, sub *fakeSubmitter) *terminal {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)

	store := NewStore(0, nil)
	dispatcher := NewDispatcher(fc, sub, nil)
	handler := NewHandler(nil, dispatcher, store, templates, ScreenConfig{})

	router := chi.NewRouter()
	router.Route("/pos", handler.MountRoutes)
	return &terminal{t: t, router: router}
}

func (term *terminal) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	term.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if term.cookie != nil {
		req.AddCookie(term.cookie)
	}
	rec := httptest.NewRecorder()
	term.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			term.cookie = c
		}
	}
	return rec
}

func TestScreenRendersAndStartsSession(t *testing.T) {
	term := newTerminal(t, &fakeCatalog{}, &fakeSubmitter{})

	rec := term.do(http.MethodGet, "/pos/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `id="salesQueue"`)
	require.Contains(t, rec.Body.String(), `data-url="/pos/checkout"`)
	require.NotNil(t, term.cookie)
}

func TestSearchRendersCatalogRows(t *testing.T) {
	fc := &fakeCatalog{products: []catalog.Product{
		{ID: 1, GenericName: "Paracetamol", BrandName: "Panadol", SellingPrice: 1000, Quantity: 3},
		{ID: 2, GenericName: "Ibuprofen", BrandName: "Brufen", Quantity: 0},
	}}
	term := newTerminal(t, fc, &fakeSubmitter{})

	rec := term.do(http.MethodGet, "/pos/search?name=pa", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Equal(t, 2, strings.Count(body, "add-button"), "one row per product")
	require.Contains(t, body, "Paracetamol")
	require.Contains(t, body, `class="out-of-stock"`)
	require.Contains(t, body, "disabled")
}

func TestAddRendersQueueUpdate(t *testing.T) {
	fc := &fakeCatalog{products: []catalog.Product{
		{ID: 1, GenericName: "Paracetamol", SellingPrice: 1000, Quantity: 3},
	}}
	term := newTerminal(t, fc, &fakeSubmitter{})

	term.do(http.MethodGet, "/pos/search?name=", nil)
	rec := term.do(http.MethodPost, "/pos/queue/add", url.Values{"product_id": {"1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-grand-total="1,000.00"`)
	require.Contains(t, rec.Body.String(), "remove-button")
}

func TestAddRejectsBadProductID(t *testing.T) {
	term := newTerminal(t, &fakeCatalog{}, &fakeSubmitter{})
	rec := term.do(http.MethodPost, "/pos/queue/add", url.Values{"product_id": {"abc"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditQuantityCoercesInvalidInputToZero(t *testing.T) {
	fc := &fakeCatalog{products: []catalog.Product{
		{ID: 1, GenericName: "Paracetamol", SellingPrice: 1000, Quantity: 3},
	}}
	term := newTerminal(t, fc, &fakeSubmitter{})

	term.do(http.MethodGet, "/pos/search?name=", nil)
	term.do(http.MethodPost, "/pos/queue/add", url.Values{"product_id": {"1"}})

	rec := term.do(http.MethodPost, "/pos/queue/quantity", url.Values{"product_id": {"1"}, "quantity": {"x"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-grand-total="0.00"`)
}

func TestCheckoutFlow(t *testing.T) {
	fc := &fakeCatalog{products: []catalog.Product{
		{ID: 1, GenericName: "Paracetamol", SellingPrice: 1000, Quantity: 3},
	}}
	sub := &fakeSubmitter{}
	term := newTerminal(t, fc, sub)

	term.do(http.MethodGet, "/pos/search?name=", nil)
	term.do(http.MethodPost, "/pos/queue/add", url.Values{"product_id": {"1"}})
	term.do(http.MethodPost, "/pos/queue/add", url.Values{"product_id": {"1"}})

	rec := term.do(http.MethodPost, "/pos/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-grand-total="0.00"`)
	require.Equal(t, 1, sub.calls)

	// The catalog partial reflects the optimistic decrement.
	rec = term.do(http.MethodGet, "/pos/catalog", nil)
	require.Contains(t, rec.Body.String(), `id="quantity-1">1<`)
}
