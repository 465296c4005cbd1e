package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/models"
	"github.com/spendlens/spendlens/pkg/services"
	sqlbuilder "github.com/spendlens/spendlens/pkg/sql"
)

// AnalyticsHandler handles the reporting HTTP endpoints.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RegisterRoutes registers the analytics handler's routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /stats", h.Stats)
	mux.HandleFunc("GET /invoice-trends", h.InvoiceTrends)
	mux.HandleFunc("GET /vendors/top10", h.TopVendors)
	mux.HandleFunc("GET /category-spend", h.CategorySpend)
	mux.HandleFunc("GET /cash-outflow", h.CashOutflow)
	mux.HandleFunc("GET /invoices", h.ListInvoices)
}

// Stats handles GET /stats
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch dashboard stats", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "An error occurred while fetching dashboard stats.")
		return
	}

	h.writeJSON(w, stats)
}

// InvoiceTrends handles GET /invoice-trends
func (h *AnalyticsHandler) InvoiceTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.analyticsService.GetInvoiceTrends(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch invoice trends", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch invoice trends.")
		return
	}

	h.writeJSON(w, trends)
}

// TopVendors handles GET /vendors/top10
func (h *AnalyticsHandler) TopVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.analyticsService.GetTopVendors(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch top vendors", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch top vendors data.")
		return
	}

	h.writeJSON(w, vendors)
}

// CategorySpend handles GET /category-spend
func (h *AnalyticsHandler) CategorySpend(w http.ResponseWriter, r *http.Request) {
	categories, err := h.analyticsService.GetCategorySpend(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch category spend", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch category spend data.")
		return
	}

	h.writeJSON(w, categories)
}

// CashOutflow handles GET /cash-outflow
//
// Optional query parameters from and to bound the projection window as
// YYYY-MM-DD dates; a malformed date is a client error rather than a silent
// full-range scan.
func (h *AnalyticsHandler) CashOutflow(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD.")
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD.")
		return
	}

	outflows, err := h.analyticsService.GetCashOutflow(r.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to fetch cash outflow", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch cash outflow data.")
		return
	}

	h.writeJSON(w, outflows)
}

// ListInvoices handles GET /invoices
//
// Query parameters: search, sortBy, order, page, perPage. Unrecognized sort
// columns and directions fall back to their defaults; page and perPage are
// clamped, never rejected.
func (h *AnalyticsHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec := sqlbuilder.NormalizeListSpec(
		q.Get("search"),
		q.Get("sortBy"),
		q.Get("order"),
		q.Get("page"),
		q.Get("perPage"),
	)

	page, err := h.analyticsService.ListInvoices(r.Context(), spec)
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to list invoices")
		return
	}

	h.writeJSON(w, page)
}

func (h *AnalyticsHandler) writeJSON(w http.ResponseWriter, data any) {
	if err := WriteJSON(w, http.StatusOK, data); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AnalyticsHandler) writeError(w http.ResponseWriter, status int, message string) {
	if err := ErrorResponse(w, status, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(models.FormatDate, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
