// Package repositories provides data access over the invoice schema.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/spendlens/spendlens/pkg/database"
	"github.com/spendlens/spendlens/pkg/models"
	sqlbuilder "github.com/spendlens/spendlens/pkg/sql"
)

// AnalyticsRepository reads the reporting aggregates. All methods are
// read-only; entities are created by an external ingestion process.
type AnalyticsRepository interface {
	// Stats returns the dashboard headline aggregates. Year-to-date spend
	// counts invoices dated on or after yearStart.
	Stats(ctx context.Context, yearStart time.Time) (*models.StatsRow, error)

	// MonthlyTrends returns invoice count and spend per calendar month,
	// oldest first.
	MonthlyTrends(ctx context.Context) ([]models.MonthlyTrendRow, error)

	// TopVendors returns up to limit vendors by total spend descending.
	// Equal spend ties break on vendor id ascending so the ranking is
	// deterministic.
	TopVendors(ctx context.Context, limit int) ([]models.VendorSpendRow, error)

	// CategorySpend returns line-item spend per booking category,
	// highest first.
	CategorySpend(ctx context.Context) ([]models.CategorySpendRow, error)

	// CashOutflow returns projected payment obligations per due date.
	CashOutflow(ctx context.Context, from, to *time.Time) ([]models.CashOutflowRow, error)

	// ListInvoices returns one page of the invoice listing plus the total
	// row count. Both are computed inside one transaction so the page and
	// the count describe the same snapshot.
	ListInvoices(ctx context.Context, spec sqlbuilder.ListSpec) ([]models.InvoiceListRow, int, error)
}

type analyticsRepository struct {
	db *database.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(db *database.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

var _ AnalyticsRepository = (*analyticsRepository)(nil)

func (r *analyticsRepository) Stats(ctx context.Context, yearStart time.Time) (*models.StatsRow, error) {
	var stats models.StatsRow

	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(i."totalAmount"), 0)::float8,
			COALESCE(AVG(i."totalAmount"), 0)::float8
		FROM "invoices" i
		WHERE i."invoiceDate" >= $1`, yearStart).
		Scan(&stats.TotalSpendYTD, &stats.AverageInvoiceValue)
	if err != nil {
		return nil, fmt.Errorf("aggregate ytd spend: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM "invoices"`).
		Scan(&stats.TotalInvoicesProcessed)
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM "documents"`).
		Scan(&stats.DocumentsUploaded)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	return &stats, nil
}

func (r *analyticsRepository) MonthlyTrends(ctx context.Context) ([]models.MonthlyTrendRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			TO_CHAR(i."invoiceDate", 'YYYY-MM') AS month,
			COUNT(i."documentId")::int AS invoice_count,
			SUM(COALESCE(i."totalAmount", 0))::float8 AS total_spend
		FROM "invoices" i
		GROUP BY 1
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("query monthly trends: %w", err)
	}
	defer rows.Close()

	var trends []models.MonthlyTrendRow
	for rows.Next() {
		var t models.MonthlyTrendRow
		if err := rows.Scan(&t.Month, &t.InvoiceCount, &t.TotalSpend); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}

	return trends, nil
}

func (r *analyticsRepository) TopVendors(ctx context.Context, limit int) ([]models.VendorSpendRow, error) {
	// vendorId ascending is the tie-break so equal spend produces a
	// stable ranking.
	rows, err := r.db.Query(ctx, `
		SELECT
			i."vendorId",
			COALESCE(v."vendorName", 'Unknown Vendor') AS vendor_name,
			SUM(COALESCE(i."totalAmount", 0))::float8 AS total_spend
		FROM "invoices" i
		LEFT JOIN "vendors" v ON v.id = i."vendorId"
		GROUP BY i."vendorId", v."vendorName"
		ORDER BY total_spend DESC, i."vendorId" ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top vendors: %w", err)
	}
	defer rows.Close()

	var vendors []models.VendorSpendRow
	for rows.Next() {
		var v models.VendorSpendRow
		if err := rows.Scan(&v.VendorID, &v.VendorName, &v.TotalSpend); err != nil {
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor rows: %w", err)
	}

	return vendors, nil
}

func (r *analyticsRepository) CategorySpend(ctx context.Context) ([]models.CategorySpendRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			COALESCE("Sachkonto", "BUSchluessel", 'Unknown') AS category,
			SUM(COALESCE("totalPrice", 0))::float8 AS spend
		FROM "line_items"
		GROUP BY 1
		ORDER BY spend DESC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("query category spend: %w", err)
	}
	defer rows.Close()

	var categories []models.CategorySpendRow
	for rows.Next() {
		var c models.CategorySpendRow
		if err := rows.Scan(&c.Category, &c.Spend); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

func (r *analyticsRepository) CashOutflow(ctx context.Context, from, to *time.Time) ([]models.CashOutflowRow, error) {
	stmt := sqlbuilder.BuildCashOutflow(from, to)

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("query cash outflow: %w", err)
	}
	defer rows.Close()

	var outflows []models.CashOutflowRow
	for rows.Next() {
		var o models.CashOutflowRow
		if err := rows.Scan(&o.Date, &o.ExpectedOutflow); err != nil {
			return nil, fmt.Errorf("scan outflow row: %w", err)
		}
		outflows = append(outflows, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outflow rows: %w", err)
	}

	return outflows, nil
}

func (r *analyticsRepository) ListInvoices(ctx context.Context, spec sqlbuilder.ListSpec) ([]models.InvoiceListRow, int, error) {
	data, count := sqlbuilder.BuildInvoiceList(spec)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("begin listing transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, data.SQL, data.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query invoice page: %w", err)
	}

	var invoices []models.InvoiceListRow
	for rows.Next() {
		var inv models.InvoiceListRow
		if err := rows.Scan(
			&inv.DocumentID,
			&inv.InvoiceNumber,
			&inv.InvoiceDate,
			&inv.VendorName,
			&inv.TotalAmount,
			&inv.DueDate,
			&inv.DocumentStatus,
		); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate invoice rows: %w", err)
	}

	var total int
	if err := tx.QueryRow(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit listing transaction: %w", err)
	}

	return invoices, total, nil
}
