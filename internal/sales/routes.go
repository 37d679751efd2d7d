package sales

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the dashboard and form endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.showDashboard)
	r.Get("/api/dashboard", h.dashboardJSON)
	r.Get("/add", h.showAddForm)
	r.Post("/add", h.createSale)
	r.Get("/edit/{id}", h.showEditForm)
	r.Post("/edit/{id}", h.updateSale)
	r.Post("/delete/{id}", h.deleteSale)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/export.csv", h.exportCSV)
	})
}
