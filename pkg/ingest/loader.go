package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/database"
)

// LoadSummary reports what a Load run inserted.
type LoadSummary struct {
	Documents      int
	Vendors        int
	Customers      int
	Invoices       int
	PaymentDetails int
	LineItems      int
	Skipped        int
}

// Loader writes normalized bundles into the invoice schema.
type Loader struct {
	db     *database.DB
	logger *zap.Logger
}

// NewLoader creates a new Loader.
func NewLoader(db *database.DB, logger *zap.Logger) *Loader {
	return &Loader{db: db, logger: logger.Named("ingest")}
}

// Load replaces the schema contents with the given bundles inside one
// transaction. Vendors and customers are deduplicated by name. A bundle
// whose vendor cannot be resolved keeps its document row but produces no
// invoice; it is counted as skipped.
func (l *Loader) Load(ctx context.Context, bundles []*DocumentBundle) (*LoadSummary, error) {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin load transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Children first so foreign keys never dangle mid-load.
	for _, table := range []string{
		`"line_items"`, `"payment_details"`, `"invoices"`,
		`"customers"`, `"vendors"`, `"documents"`,
	} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	summary := &LoadSummary{}

	vendorIDs := make(map[string]string)
	customerIDs := make(map[string]string)
	for _, bundle := range bundles {
		if bundle == nil {
			summary.Skipped++
			continue
		}

		if _, seen := vendorIDs[bundle.VendorName]; !seen && bundle.Vendor != nil {
			id := uuid.NewString()
			_, err := tx.Exec(ctx, `
				INSERT INTO "vendors" ("id", "vendorName", "vendorAddress", "vendorTaxId", "vendorPartyNumber")
				VALUES ($1, $2, $3, $4, $5)`,
				id, bundle.Vendor.VendorName, bundle.Vendor.VendorAddress,
				bundle.Vendor.VendorTaxID, bundle.Vendor.VendorPartyNumber)
			if err != nil {
				return nil, fmt.Errorf("insert vendor %q: %w", bundle.VendorName, err)
			}
			vendorIDs[bundle.VendorName] = id
			summary.Vendors++
		}

		if bundle.Customer != nil {
			if _, seen := customerIDs[bundle.CustomerName]; !seen {
				id := uuid.NewString()
				_, err := tx.Exec(ctx, `
					INSERT INTO "customers" ("id", "customerName", "customerAddress", "customerTaxId")
					VALUES ($1, $2, $3, $4)`,
					id, bundle.Customer.CustomerName, bundle.Customer.CustomerAddress,
					bundle.Customer.CustomerTaxID)
				if err != nil {
					return nil, fmt.Errorf("insert customer %q: %w", bundle.CustomerName, err)
				}
				customerIDs[bundle.CustomerName] = id
				summary.Customers++
			}
		}
	}

	for _, bundle := range bundles {
		if bundle == nil {
			continue
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO "documents"
				("id", "name", "filePath", "fileType", "fileSize", "status",
				 "createdAt", "updatedAt", "processedAt")
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			bundle.DocumentID, bundle.Name, bundle.FilePath, bundle.FileType,
			bundle.FileSize, bundle.Status, bundle.CreatedAt, bundle.UpdatedAt,
			bundle.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("insert document %s: %w", bundle.DocumentID, err)
		}
		summary.Documents++

		vendorID, ok := vendorIDs[bundle.VendorName]
		if !ok {
			l.logger.Warn("vendor unresolved, loading document without invoice",
				zap.String("document_id", bundle.DocumentID))
			summary.Skipped++
			continue
		}

		var customerID *string
		if id, ok := customerIDs[bundle.CustomerName]; ok && bundle.CustomerName != "" {
			customerID = &id
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO "invoices"
				("documentId", "invoiceNumber", "invoiceDate", "deliveryDate",
				 "documentType", "totalAmount", "totalTax", "subTotal", "currency",
				 "vendorId", "customerId")
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			bundle.DocumentID, bundle.InvoiceNumber, bundle.InvoiceDate,
			bundle.DeliveryDate, bundle.DocumentType, bundle.TotalAmount,
			bundle.TotalTax, bundle.SubTotal, bundle.Currency,
			vendorID, customerID)
		if err != nil {
			return nil, fmt.Errorf("insert invoice %s: %w", bundle.DocumentID, err)
		}
		summary.Invoices++

		if p := bundle.Payment; p != nil {
			_, err := tx.Exec(ctx, `
				INSERT INTO "payment_details"
					("invoiceDocumentId", "dueDate", "paymentTerms", "bankAccountNumber",
					 "BIC", "accountName", "netDays", "discountPercentage",
					 "discountDays", "discountDueDate", "discountedTotal")
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				bundle.DocumentID, p.DueDate, p.PaymentTerms, p.BankAccountNumber,
				p.BIC, p.AccountName, p.NetDays, p.DiscountPercent,
				p.DiscountDays, p.DiscountDueDate, p.DiscountedTotal)
			if err != nil {
				return nil, fmt.Errorf("insert payment details %s: %w", bundle.DocumentID, err)
			}
			summary.PaymentDetails++
		}

		seenLines := make(map[float64]bool)
		for _, item := range bundle.LineItems {
			if seenLines[item.LineNumber] {
				continue
			}
			seenLines[item.LineNumber] = true

			_, err := tx.Exec(ctx, `
				INSERT INTO "line_items"
					("invoiceDocumentId", "line_number", "description", "quantity",
					 "unitPrice", "totalPrice", "Sachkonto", "BUSchluessel",
					 "vatRate", "vatAmount")
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				bundle.DocumentID, item.LineNumber, item.Description, item.Quantity,
				item.UnitPrice, item.TotalPrice, nilIfEmpty(item.Sachkonto),
				nilIfEmpty(item.BUSchluessel), item.VatRate, item.VatAmount)
			if err != nil {
				return nil, fmt.Errorf("insert line item %s/%v: %w", bundle.DocumentID, item.LineNumber, err)
			}
			summary.LineItems++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit load transaction: %w", err)
	}

	l.logger.Info("load complete",
		zap.Int("documents", summary.Documents),
		zap.Int("vendors", summary.Vendors),
		zap.Int("customers", summary.Customers),
		zap.Int("invoices", summary.Invoices),
		zap.Int("payment_details", summary.PaymentDetails),
		zap.Int("line_items", summary.LineItems),
		zap.Int("skipped", summary.Skipped))

	return summary, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
