package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/services"
	sqlbuilder "github.com/spendlens/spendlens/pkg/sql"
)

func newAnalyticsMux(svc *mockAnalyticsService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAnalyticsHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestStatsEndpoint(t *testing.T) {
	svc := &mockAnalyticsService{
		GetStatsFunc: func(ctx context.Context) (*services.DashboardStats, error) {
			return &services.DashboardStats{
				TotalSpendYTD:          1450.00,
				TotalInvoicesProcessed: 4,
				DocumentsUploaded:      5,
				AverageInvoiceValue:    362.50,
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1450.00, body["totalSpendYtd"])
	assert.Equal(t, float64(4), body["totalInvoicesProcessed"])
	assert.Equal(t, float64(5), body["documentsUploaded"])
	assert.Equal(t, 362.50, body["averageInvoiceValue"])
}

func TestStatsEndpoint_ServiceError(t *testing.T) {
	svc := &mockAnalyticsService{
		GetStatsFunc: func(ctx context.Context) (*services.DashboardStats, error) {
			return nil, errors.New("connection refused")
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "An error occurred while fetching dashboard stats.", body["error"])
	// Internal detail stays out of the response body.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestInvoiceTrendsEndpoint(t *testing.T) {
	svc := &mockAnalyticsService{
		GetInvoiceTrendsFunc: func(ctx context.Context) ([]services.InvoiceTrend, error) {
			return []services.InvoiceTrend{
				{Month: "2025-02", InvoiceCount: 1, TotalSpend: 600},
				{Month: "2025-03", InvoiceCount: 2, TotalSpend: 850},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoice-trends", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "2025-02", body[0]["month"])
	assert.Equal(t, float64(1), body[0]["invoiceCount"])
}

func TestTopVendorsEndpoint(t *testing.T) {
	svc := &mockAnalyticsService{
		GetTopVendorsFunc: func(ctx context.Context) ([]services.VendorSpend, error) {
			return []services.VendorSpend{
				{VendorID: "vend-a", VendorName: "Acme GmbH", TotalSpend: 700},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendors/top10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "vend-a", body[0]["vendorId"])
	assert.Equal(t, "Acme GmbH", body[0]["vendorName"])
}

func TestCashOutflowEndpoint_ParsesWindow(t *testing.T) {
	var gotFrom, gotTo *time.Time
	svc := &mockAnalyticsService{
		GetCashOutflowFunc: func(ctx context.Context, from, to *time.Time) ([]services.CashOutflow, error) {
			gotFrom, gotTo = from, to
			return []services.CashOutflow{}, nil
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/cash-outflow?from=2025-07-01&to=2025-09-30", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFrom)
	require.NotNil(t, gotTo)
	assert.Equal(t, "2025-07-01", gotFrom.Format("2006-01-02"))
	assert.Equal(t, "2025-09-30", gotTo.Format("2006-01-02"))
}

func TestCashOutflowEndpoint_OpenWindow(t *testing.T) {
	svc := &mockAnalyticsService{
		GetCashOutflowFunc: func(ctx context.Context, from, to *time.Time) ([]services.CashOutflow, error) {
			assert.Nil(t, from)
			assert.Nil(t, to)
			return []services.CashOutflow{}, nil
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cash-outflow", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCashOutflowEndpoint_BadDate(t *testing.T) {
	called := false
	svc := &mockAnalyticsService{
		GetCashOutflowFunc: func(ctx context.Context, from, to *time.Time) ([]services.CashOutflow, error) {
			called = true
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/cash-outflow?from=07%2F01%2F2025", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestListInvoicesEndpoint_NormalizesParams(t *testing.T) {
	var gotSpec sqlbuilder.ListSpec
	svc := &mockAnalyticsService{
		ListInvoicesFunc: func(ctx context.Context, spec sqlbuilder.ListSpec) (*services.InvoiceListPage, error) {
			gotSpec = spec
			return &services.InvoiceListPage{
				Meta: services.ListMeta{Page: spec.Page, PerPage: spec.PerPage, TotalPages: 1, Total: 1},
				Data: []services.InvoiceSummary{
					{
						DocumentID:    "doc-1",
						Vendor:        "Acme GmbH",
						Date:          "2025-02-10",
						InvoiceNumber: "INV-001",
						Amount:        600,
						Status:        "Due",
					},
				},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/invoices?search=acme&sortBy=amount&order=asc&page=0&perPage=500", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "acme", gotSpec.Search)
	assert.Equal(t, sqlbuilder.SortByAmount, gotSpec.Sort)
	assert.Equal(t, sqlbuilder.Ascending, gotSpec.Direction)
	assert.Equal(t, 1, gotSpec.Page)      // clamped up
	assert.Equal(t, 100, gotSpec.PerPage) // clamped down

	var body struct {
		Meta services.ListMeta         `json:"meta"`
		Data []services.InvoiceSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Due", body.Data[0].Status)
}

func TestAnalyticsEndpoints_MethodNotAllowed(t *testing.T) {
	svc := &mockAnalyticsService{}
	rec := httptest.NewRecorder()
	newAnalyticsMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
