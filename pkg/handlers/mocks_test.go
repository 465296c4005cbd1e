package handlers

import (
	"context"
	"time"

	"github.com/spendlens/spendlens/pkg/services"
	sqlbuilder "github.com/spendlens/spendlens/pkg/sql"
)

// mockAnalyticsService implements services.AnalyticsService with function
// fields for test injection.
type mockAnalyticsService struct {
	GetStatsFunc         func(ctx context.Context) (*services.DashboardStats, error)
	GetInvoiceTrendsFunc func(ctx context.Context) ([]services.InvoiceTrend, error)
	GetTopVendorsFunc    func(ctx context.Context) ([]services.VendorSpend, error)
	GetCategorySpendFunc func(ctx context.Context) ([]services.CategorySpend, error)
	GetCashOutflowFunc   func(ctx context.Context, from, to *time.Time) ([]services.CashOutflow, error)
	ListInvoicesFunc     func(ctx context.Context, spec sqlbuilder.ListSpec) (*services.InvoiceListPage, error)
}

func (m *mockAnalyticsService) GetStats(ctx context.Context) (*services.DashboardStats, error) {
	return m.GetStatsFunc(ctx)
}

func (m *mockAnalyticsService) GetInvoiceTrends(ctx context.Context) ([]services.InvoiceTrend, error) {
	return m.GetInvoiceTrendsFunc(ctx)
}

func (m *mockAnalyticsService) GetTopVendors(ctx context.Context) ([]services.VendorSpend, error) {
	return m.GetTopVendorsFunc(ctx)
}

func (m *mockAnalyticsService) GetCategorySpend(ctx context.Context) ([]services.CategorySpend, error) {
	return m.GetCategorySpendFunc(ctx)
}

func (m *mockAnalyticsService) GetCashOutflow(ctx context.Context, from, to *time.Time) ([]services.CashOutflow, error) {
	return m.GetCashOutflowFunc(ctx, from, to)
}

func (m *mockAnalyticsService) ListInvoices(ctx context.Context, spec sqlbuilder.ListSpec) (*services.InvoiceListPage, error) {
	return m.ListInvoicesFunc(ctx, spec)
}

// mockChatService implements services.ChatService.
type mockChatService struct {
	ChatWithDataFunc func(ctx context.Context, question string) (*services.ChatResult, error)
}

func (m *mockChatService) ChatWithData(ctx context.Context, question string) (*services.ChatResult, error) {
	return m.ChatWithDataFunc(ctx, question)
}
