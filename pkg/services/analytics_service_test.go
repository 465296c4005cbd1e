package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/models"
	sqlbuilder "github.com/spendlens/spendlens/pkg/sql"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newAnalyticsService(repo *mockAnalyticsRepository) *analyticsService {
	svc := NewAnalyticsService(repo, zap.NewNop()).(*analyticsService)
	svc.now = fixedNow
	return svc
}

func TestGetStats_RoundsAndPassesYearStart(t *testing.T) {
	var gotYearStart time.Time
	repo := &mockAnalyticsRepository{
		StatsFunc: func(ctx context.Context, yearStart time.Time) (*models.StatsRow, error) {
			gotYearStart = yearStart
			return &models.StatsRow{
				TotalSpendYTD:          1234.5678,
				TotalInvoicesProcessed: 42,
				DocumentsUploaded:      50,
				AverageInvoiceValue:    29.3945,
			}, nil
		},
	}

	svc := newAnalyticsService(repo)
	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), gotYearStart)
	assert.Equal(t, 1234.57, stats.TotalSpendYTD)
	assert.Equal(t, 29.39, stats.AverageInvoiceValue)
	assert.Equal(t, 42, stats.TotalInvoicesProcessed)
	assert.Equal(t, 50, stats.DocumentsUploaded)
}

func TestGetTopVendors_UsesLimit(t *testing.T) {
	var gotLimit int
	repo := &mockAnalyticsRepository{
		TopVendorsFunc: func(ctx context.Context, limit int) ([]models.VendorSpendRow, error) {
			gotLimit = limit
			return []models.VendorSpendRow{
				{VendorID: "vend-a", VendorName: "Acme GmbH", TotalSpend: 700.005},
			}, nil
		},
	}

	svc := newAnalyticsService(repo)
	vendors, err := svc.GetTopVendors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, TopVendorsLimit, gotLimit)
	require.Len(t, vendors, 1)
	assert.Equal(t, 700.01, vendors[0].TotalSpend)
}

func TestGetCashOutflow_FormatsDates(t *testing.T) {
	repo := &mockAnalyticsRepository{
		CashOutflowFunc: func(ctx context.Context, from, to *time.Time) ([]models.CashOutflowRow, error) {
			return []models.CashOutflowRow{
				{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), ExpectedOutflow: 99.999},
			}, nil
		},
	}

	svc := newAnalyticsService(repo)
	outflows, err := svc.GetCashOutflow(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, outflows, 1)
	assert.Equal(t, "2025-07-01", outflows[0].Date)
	assert.Equal(t, 100.0, outflows[0].ExpectedOutflow)
}

func TestListInvoices_DerivesStatusAndMeta(t *testing.T) {
	overdue := fixedNow().AddDate(0, 0, -3)
	upcoming := fixedNow().AddDate(0, 0, 14)

	repo := &mockAnalyticsRepository{
		ListInvoicesFunc: func(ctx context.Context, spec sqlbuilder.ListSpec) ([]models.InvoiceListRow, int, error) {
			return []models.InvoiceListRow{
				{
					DocumentID:     "doc-1",
					InvoiceNumber:  "INV-001",
					InvoiceDate:    time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC),
					VendorName:     "Acme GmbH",
					TotalAmount:    600.004,
					DueDate:        &overdue,
					DocumentStatus: "processed",
				},
				{
					DocumentID:     "doc-2",
					InvoiceNumber:  "INV-002",
					InvoiceDate:    time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
					VendorName:     "Brio Supplies",
					TotalAmount:    250,
					DueDate:        &upcoming,
					DocumentStatus: "processed",
				},
				{
					DocumentID:     "doc-3",
					InvoiceNumber:  "INV-003",
					InvoiceDate:    time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC),
					VendorName:     "Cobalt AG",
					TotalAmount:    100,
					DueDate:        nil,
					DocumentStatus: "uploaded",
				},
			}, 7, nil
		},
	}

	svc := newAnalyticsService(repo)
	spec := sqlbuilder.NormalizeListSpec("", "", "", "2", "3")
	page, err := svc.ListInvoices(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Meta.Page)
	assert.Equal(t, 3, page.Meta.PerPage)
	assert.Equal(t, 7, page.Meta.Total)
	assert.Equal(t, 3, page.Meta.TotalPages)

	require.Len(t, page.Data, 3)
	assert.Equal(t, "Overdue", page.Data[0].Status)
	assert.Equal(t, "2025-05-02", page.Data[0].Date)
	assert.Equal(t, 600.0, page.Data[0].Amount)
	assert.Equal(t, "Due", page.Data[1].Status)
	assert.Equal(t, "uploaded", page.Data[2].Status)
}

func TestListInvoices_RepositoryError(t *testing.T) {
	repo := &mockAnalyticsRepository{
		ListInvoicesFunc: func(ctx context.Context, spec sqlbuilder.ListSpec) ([]models.InvoiceListRow, int, error) {
			return nil, 0, errors.New("connection refused")
		},
	}

	svc := newAnalyticsService(repo)
	_, err := svc.ListInvoices(context.Background(), sqlbuilder.NormalizeListSpec("", "", "", "", ""))
	require.Error(t, err)
}

func TestGetInvoiceTrends_PassThrough(t *testing.T) {
	repo := &mockAnalyticsRepository{
		MonthlyTrendsFunc: func(ctx context.Context) ([]models.MonthlyTrendRow, error) {
			return []models.MonthlyTrendRow{
				{Month: "2025-02", InvoiceCount: 1, TotalSpend: 600.128},
				{Month: "2025-03", InvoiceCount: 2, TotalSpend: 850},
			}, nil
		},
	}

	svc := newAnalyticsService(repo)
	trends, err := svc.GetInvoiceTrends(context.Background())
	require.NoError(t, err)

	require.Len(t, trends, 2)
	assert.Equal(t, "2025-02", trends[0].Month)
	assert.Equal(t, 600.13, trends[0].TotalSpend)
}

func TestGetCategorySpend_PassThrough(t *testing.T) {
	repo := &mockAnalyticsRepository{
		CategorySpendFunc: func(ctx context.Context) ([]models.CategorySpendRow, error) {
			return []models.CategorySpendRow{
				{Category: "4400", Spend: 400.555},
				{Category: "Unknown", Spend: 600},
			}, nil
		},
	}

	svc := newAnalyticsService(repo)
	categories, err := svc.GetCategorySpend(context.Background())
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, 400.56, categories[0].Spend)
}
