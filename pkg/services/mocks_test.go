package services

import (
	"context"
	"time"

	"github.com/spendlens/spendlens/pkg/models"
	sqlbuilder "github.com/spendlens/spendlens/pkg/sql"
)

// mockAnalyticsRepository implements repositories.AnalyticsRepository with
// function fields for test injection.
type mockAnalyticsRepository struct {
	StatsFunc         func(ctx context.Context, yearStart time.Time) (*models.StatsRow, error)
	MonthlyTrendsFunc func(ctx context.Context) ([]models.MonthlyTrendRow, error)
	TopVendorsFunc    func(ctx context.Context, limit int) ([]models.VendorSpendRow, error)
	CategorySpendFunc func(ctx context.Context) ([]models.CategorySpendRow, error)
	CashOutflowFunc   func(ctx context.Context, from, to *time.Time) ([]models.CashOutflowRow, error)
	ListInvoicesFunc  func(ctx context.Context, spec sqlbuilder.ListSpec) ([]models.InvoiceListRow, int, error)
}

func (m *mockAnalyticsRepository) Stats(ctx context.Context, yearStart time.Time) (*models.StatsRow, error) {
	return m.StatsFunc(ctx, yearStart)
}

func (m *mockAnalyticsRepository) MonthlyTrends(ctx context.Context) ([]models.MonthlyTrendRow, error) {
	return m.MonthlyTrendsFunc(ctx)
}

func (m *mockAnalyticsRepository) TopVendors(ctx context.Context, limit int) ([]models.VendorSpendRow, error) {
	return m.TopVendorsFunc(ctx, limit)
}

func (m *mockAnalyticsRepository) CategorySpend(ctx context.Context) ([]models.CategorySpendRow, error) {
	return m.CategorySpendFunc(ctx)
}

func (m *mockAnalyticsRepository) CashOutflow(ctx context.Context, from, to *time.Time) ([]models.CashOutflowRow, error) {
	return m.CashOutflowFunc(ctx, from, to)
}

func (m *mockAnalyticsRepository) ListInvoices(ctx context.Context, spec sqlbuilder.ListSpec) ([]models.InvoiceListRow, int, error) {
	return m.ListInvoicesFunc(ctx, spec)
}

// mockChatExecutor implements repositories.ChatQueryExecutor.
type mockChatExecutor struct {
	ExecuteReadOnlyFunc func(ctx context.Context, query string) ([]map[string]any, error)
	Calls               []string
}

func (m *mockChatExecutor) ExecuteReadOnly(ctx context.Context, query string) ([]map[string]any, error) {
	m.Calls = append(m.Calls, query)
	if m.ExecuteReadOnlyFunc != nil {
		return m.ExecuteReadOnlyFunc(ctx, query)
	}
	return []map[string]any{}, nil
}
