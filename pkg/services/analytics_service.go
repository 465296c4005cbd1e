// Package services holds the business logic between HTTP handlers and the
// data layer. Services shape repository rows into response views: money is
// rounded to two decimals, dates are formatted as YYYY-MM-DD, and invoice
// statuses are derived from the canonical status rule.
package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/models"
	"github.com/spendlens/spendlens/pkg/repositories"
	sqlbuilder "github.com/spendlens/spendlens/pkg/sql"
)

// TopVendorsLimit caps the vendor ranking.
const TopVendorsLimit = 10

// DashboardStats is the headline aggregate view.
type DashboardStats struct {
	TotalSpendYTD          float64 `json:"totalSpendYtd"`
	TotalInvoicesProcessed int     `json:"totalInvoicesProcessed"`
	DocumentsUploaded      int     `json:"documentsUploaded"`
	AverageInvoiceValue    float64 `json:"averageInvoiceValue"`
}

// InvoiceTrend is one month of invoice volume and spend.
type InvoiceTrend struct {
	Month        string  `json:"month"`
	InvoiceCount int     `json:"invoiceCount"`
	TotalSpend   float64 `json:"totalSpend"`
}

// VendorSpend is one vendor's aggregate spend in the ranking.
type VendorSpend struct {
	VendorID   string  `json:"vendorId"`
	VendorName string  `json:"vendorName"`
	TotalSpend float64 `json:"totalSpend"`
}

// CategorySpend is aggregate spend for one booking category.
type CategorySpend struct {
	Category string  `json:"category"`
	Spend    float64 `json:"spend"`
}

// CashOutflow is the projected payment obligation for one due date.
type CashOutflow struct {
	Date            string  `json:"date"`
	ExpectedOutflow float64 `json:"expected_outflow"`
}

// InvoiceSummary is one row of the invoice listing.
type InvoiceSummary struct {
	DocumentID    string  `json:"documentId"`
	Vendor        string  `json:"vendor"`
	Date          string  `json:"date"`
	InvoiceNumber string  `json:"invoiceNumber"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

// ListMeta describes the pagination state of a listing response.
type ListMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// InvoiceListPage is one page of the invoice listing plus its metadata.
type InvoiceListPage struct {
	Meta ListMeta         `json:"meta"`
	Data []InvoiceSummary `json:"data"`
}

// AnalyticsService exposes the reporting operations.
type AnalyticsService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	GetInvoiceTrends(ctx context.Context) ([]InvoiceTrend, error)
	GetTopVendors(ctx context.Context) ([]VendorSpend, error)
	GetCategorySpend(ctx context.Context) ([]CategorySpend, error)
	GetCashOutflow(ctx context.Context, from, to *time.Time) ([]CashOutflow, error)
	ListInvoices(ctx context.Context, spec sqlbuilder.ListSpec) (*InvoiceListPage, error)
}

type analyticsService struct {
	repo   repositories.AnalyticsRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo repositories.AnalyticsRepository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger.Named("analytics-service"),
		now:    time.Now,
	}
}

var _ AnalyticsService = (*analyticsService)(nil)

func (s *analyticsService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	stats, err := s.repo.Stats(ctx, yearStart)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}

	return &DashboardStats{
		TotalSpendYTD:          models.RoundMoney(stats.TotalSpendYTD),
		TotalInvoicesProcessed: stats.TotalInvoicesProcessed,
		DocumentsUploaded:      stats.DocumentsUploaded,
		AverageInvoiceValue:    models.RoundMoney(stats.AverageInvoiceValue),
	}, nil
}

func (s *analyticsService) GetInvoiceTrends(ctx context.Context) ([]InvoiceTrend, error) {
	rows, err := s.repo.MonthlyTrends(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch invoice trends: %w", err)
	}

	trends := make([]InvoiceTrend, 0, len(rows))
	for _, r := range rows {
		trends = append(trends, InvoiceTrend{
			Month:        r.Month,
			InvoiceCount: r.InvoiceCount,
			TotalSpend:   models.RoundMoney(r.TotalSpend),
		})
	}
	return trends, nil
}

func (s *analyticsService) GetTopVendors(ctx context.Context) ([]VendorSpend, error) {
	rows, err := s.repo.TopVendors(ctx, TopVendorsLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch top vendors: %w", err)
	}

	vendors := make([]VendorSpend, 0, len(rows))
	for _, r := range rows {
		vendors = append(vendors, VendorSpend{
			VendorID:   r.VendorID,
			VendorName: r.VendorName,
			TotalSpend: models.RoundMoney(r.TotalSpend),
		})
	}
	return vendors, nil
}

func (s *analyticsService) GetCategorySpend(ctx context.Context) ([]CategorySpend, error) {
	rows, err := s.repo.CategorySpend(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch category spend: %w", err)
	}

	categories := make([]CategorySpend, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, CategorySpend{
			Category: r.Category,
			Spend:    models.RoundMoney(r.Spend),
		})
	}
	return categories, nil
}

func (s *analyticsService) GetCashOutflow(ctx context.Context, from, to *time.Time) ([]CashOutflow, error) {
	rows, err := s.repo.CashOutflow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch cash outflow: %w", err)
	}

	outflows := make([]CashOutflow, 0, len(rows))
	for _, r := range rows {
		outflows = append(outflows, CashOutflow{
			Date:            r.Date.Format(models.FormatDate),
			ExpectedOutflow: models.RoundMoney(r.ExpectedOutflow),
		})
	}
	return outflows, nil
}

func (s *analyticsService) ListInvoices(ctx context.Context, spec sqlbuilder.ListSpec) (*InvoiceListPage, error) {
	rows, total, err := s.repo.ListInvoices(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	now := s.now()
	data := make([]InvoiceSummary, 0, len(rows))
	for _, r := range rows {
		data = append(data, InvoiceSummary{
			DocumentID:    r.DocumentID,
			Vendor:        r.VendorName,
			Date:          r.InvoiceDate.Format(models.FormatDate),
			InvoiceNumber: r.InvoiceNumber,
			Amount:        models.RoundMoney(r.TotalAmount),
			Status:        models.DeriveStatus(r.DueDate, r.DocumentStatus, now),
		})
	}

	return &InvoiceListPage{
		Meta: ListMeta{
			Page:       spec.Page,
			PerPage:    spec.PerPage,
			TotalPages: int(math.Ceil(float64(total) / float64(spec.PerPage))),
			Total:      total,
		},
		Data: data,
	}, nil
}
