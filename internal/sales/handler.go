package sales

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/krishi-ledger/krishi-ledger/internal/chart"
	"github.com/krishi-ledger/krishi-ledger/internal/platform/httpx"
	"github.com/krishi-ledger/krishi-ledger/internal/shared"
	"github.com/krishi-ledger/krishi-ledger/internal/view"
)

// BarRenderer abstracts SVG bar chart rendering for the dashboard.
type BarRenderer interface {
	Bars(width, height int, series []float64, labels []string, opts chart.BarOpts) (template.HTML, error)
}

// Handler serves the dashboard and the sale forms.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	bars      BarRenderer
	validate  *validator.Validate
	csvPool   sync.Pool
}

// NewHandler builds a Handler. bars may be nil to skip charts.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, bars BarRenderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		bars:      bars,
		validate:  NewValidator(),
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	filter := FilterFromValues(r.URL.Query())
	dashboard, err := h.service.Dashboard(r.Context(), filter)
	if err != nil {
		if errors.Is(err, ErrInvalidFilter) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.handleServerError(w, "load dashboard", err)
		return
	}

	data := map[string]any{
		"Dashboard": dashboard,
		"Statuses":  Statuses(),
		"ExportURL": exportURL(filter),
	}
	if h.bars != nil {
		data["UnitsChart"] = h.areaChart(dashboard.Metrics.SalesByArea, "Units sold by area", "Units")
		data["VendorsChart"] = h.areaChart(dashboard.Metrics.VendorsByArea, "Vendors by area", "Vendors")
	}
	h.render(w, r, "pages/dashboard.html", "Dashboard", data, http.StatusOK)
}

func (h *Handler) dashboardJSON(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context(), FilterFromValues(r.URL.Query()))
	if err != nil {
		if !errors.Is(err, ErrInvalidFilter) {
			h.logger.Error("load dashboard", slog.Any("error", err))
		}
		httpx.RespondError(w, err, httpx.ErrorStatus{Err: ErrInvalidFilter, Status: http.StatusBadRequest, Title: "Invalid Filter"})
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context(), FilterFromValues(r.URL.Query()))
	if err != nil {
		if errors.Is(err, ErrInvalidFilter) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.handleServerError(w, "load sales for export", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()
	if err := WriteCSV(buf, dashboard.Sales); err != nil {
		h.handleServerError(w, "write sales csv", err)
		return
	}

	filename := "sales-" + h.service.Today().Format(DateLayout) + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("stream csv", slog.Any("error", err))
	}
}

func (h *Handler) showAddForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, SaleForm{PaymentStatus: string(StatusDue)}, FormErrors{}, "", http.StatusOK)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := SaleFormFromValues(r.PostForm)
	sale, errs := h.bind(form)
	if len(errs) > 0 {
		h.renderForm(w, r, form, errs, "", http.StatusBadRequest)
		return
	}
	if _, err := h.service.Create(r.Context(), sale); err != nil {
		h.handleServerError(w, "create sale", err)
		return
	}
	h.redirectWithFlash(w, r, "/", "success", "Sale added")
}

func (h *Handler) showEditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Sale not found", http.StatusNotFound)
			return
		}
		h.handleServerError(w, "load sale", err)
		return
	}
	h.renderForm(w, r, SaleFormFromSale(*sale), FormErrors{}, id, http.StatusOK)
}

func (h *Handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := SaleFormFromValues(r.PostForm)
	sale, errs := h.bind(form)
	if len(errs) > 0 {
		h.renderForm(w, r, form, errs, id, http.StatusBadRequest)
		return
	}
	if err := h.service.Update(r.Context(), id, sale); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Sale not found", http.StatusNotFound)
			return
		}
		h.handleServerError(w, "update sale", err)
		return
	}
	h.redirectWithFlash(w, r, "/", "success", "Sale updated")
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServerError(w, "delete sale", err)
		return
	}
	h.redirectWithFlash(w, r, "/", "success", "Sale deleted")
}

func (h *Handler) bind(form SaleForm) (Sale, FormErrors) {
	errs := form.Validate(h.validate)
	if len(errs) > 0 {
		return Sale{}, errs
	}
	sale, err := form.Sale(h.service.Location())
	if err != nil {
		return Sale{}, FormErrors{"general": err.Error()}
	}
	return sale, nil
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form SaleForm, errs FormErrors, id string, status int) {
	products, err := h.service.ProductNames(r.Context())
	if err != nil {
		h.handleServerError(w, "list products", err)
		return
	}
	action, title := "/add", "Add sale"
	if id != "" {
		action, title = "/edit/"+id, "Edit sale"
	}
	h.render(w, r, "pages/sale_form.html", title, map[string]any{
		"Form":     form,
		"Errors":   errs,
		"Products": products,
		"Statuses": Statuses(),
		"Action":   action,
		"Editing":  id != "",
	}, status)
}

func (h *Handler) areaChart(byArea map[string]int, title, label string) template.HTML {
	if len(byArea) == 0 {
		return ""
	}
	labels := make([]string, 0, len(byArea))
	for area := range byArea {
		labels = append(labels, area)
	}
	sort.Strings(labels)
	series := make([]float64, len(labels))
	for i, area := range labels {
		series[i] = float64(byArea[area])
	}
	svg, err := h.bars.Bars(chart.DefaultWidth, chart.DefaultHeight, series, labels, chart.BarOpts{
		Title:       title,
		SeriesLabel: label,
		ShowValues:  true,
	})
	if err != nil {
		h.logger.Warn("render chart", slog.String("chart", title), slog.Any("error", err))
		return ""
	}
	return svg
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tmpl, title string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	var csrfToken string
	var flash *shared.FlashMessage
	if sess != nil {
		if h.csrf != nil {
			csrfToken, _ = h.csrf.EnsureToken(r.Context(), sess)
		}
		flash = sess.PopFlash()
	}

	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}

	var buf bytes.Buffer
	if err := h.templates.RenderTo(&buf, tmpl, viewData); err != nil {
		h.handleServerError(w, "template render failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func exportURL(filter Filter) template.URL {
	query := filter.Values().Encode()
	if query == "" {
		return "/export.csv"
	}
	return template.URL("/export.csv?" + query)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logger.Error(context, slog.Any("error", err))
	http.Error(w, "Server Error", http.StatusInternalServerError)
}
