package view

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/tillpoint-pos/tillpoint/internal/catalog"
	"github.com/tillpoint-pos/tillpoint/internal/salesqueue"
	"github.com/tillpoint-pos/tillpoint/internal/shared"
	"github.com/tillpoint-pos/tillpoint/web"
)

const expiryWarnMonths = 2

// Engine renders HTML templates. Every render is a pure projection of the
// session state; no template ever mutates it.
type Engine struct {
	templates *template.Template
}

// ScreenData is the full POS screen model.
type ScreenData struct {
	Title        string
	Notice       *shared.Notification
	Products     []catalog.Product
	Lines        []salesqueue.QueueLine
	GrandTotal   string
	SubmitURL    string
	SubmitMethod string
}

// CatalogData backs the catalog table partial.
type CatalogData struct {
	Products []catalog.Product
}

// QueueData backs the queue table partial.
type QueueData struct {
	Notice     *shared.Notification
	Lines      []salesqueue.QueueLine
	GrandTotal string
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatMoney": salesqueue.FormatAmount,
		"monthYear": func(d catalog.Date) string {
			return d.MonthYear()
		},
		"expiryColor": func(d catalog.Date) string {
			if d.IsZero() {
				return "expiry-unknown"
			}
			days := int(time.Until(d.Time).Hours() / 24)
			switch {
			case days < 0:
				return "expiry-past"
			case days < expiryWarnMonths*30:
				return "expiry-soon"
			default:
				return "expiry-ok"
			}
		},
		"subtotal": func(line salesqueue.QueueLine) string {
			return salesqueue.FormatAmount(line.Subtotal())
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template.
func (e *Engine) Render(w http.ResponseWriter, name string, data any) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
