// Package models holds the row types read from the invoice schema and the
// derived values computed from them. All persisted entities are created by
// an external ingestion process; this service only reads them.
package models

import "time"

// Document is the upload/processing envelope an Invoice is extracted from.
type Document struct {
	ID     string
	Status string
}

// Vendor identifies the party that issued an invoice.
type Vendor struct {
	ID            string
	VendorName    string
	VendorAddress *string
	VendorTaxID   *string
}

// Customer identifies the party an invoice was issued to.
type Customer struct {
	ID              string
	CustomerName    string
	CustomerAddress *string
	CustomerTaxID   *string
}

// Invoice is the extracted invoice record. DocumentID doubles as the primary
// key because at most one invoice is extracted per document. TotalAmount may
// be negative for credit notes.
type Invoice struct {
	DocumentID    string
	InvoiceNumber string
	InvoiceDate   time.Time
	DeliveryDate  *time.Time
	DocumentType  *string
	TotalAmount   float64
	TotalTax      *float64
	SubTotal      *float64
	Currency      *string
	VendorID      string
	CustomerID    *string
}

// LineItem is one line of an invoice. Sachkonto and BUSchluessel are
// free-text booking codes used for category spend aggregation.
type LineItem struct {
	ID                int64
	InvoiceDocumentID string
	LineNumber        *int
	Description       *string
	Quantity          *float64
	UnitPrice         *float64
	TotalPrice        *float64
	Sachkonto         *string
	BUSchluessel      *string
}

// PaymentDetail holds the payment terms for an invoice (one-to-one).
// DiscountedTotal, when present, is preferred over the invoice total for
// cash-outflow projection.
type PaymentDetail struct {
	InvoiceDocumentID string
	DueDate           *time.Time
	PaymentTerms      *string
	BankAccountNumber *string
	DiscountedTotal   *float64
}

// InvoiceListRow is the joined row backing the invoice listing: invoice
// fields plus the vendor name, optional due date and the raw document status.
type InvoiceListRow struct {
	DocumentID     string
	InvoiceNumber  string
	InvoiceDate    time.Time
	VendorName     string
	TotalAmount    float64
	DueDate        *time.Time
	DocumentStatus string
}

// MonthlyTrendRow is one month of invoice volume and spend.
type MonthlyTrendRow struct {
	Month        string // YYYY-MM
	InvoiceCount int
	TotalSpend   float64
}

// VendorSpendRow is one vendor's aggregate spend.
type VendorSpendRow struct {
	VendorID   string
	VendorName string
	TotalSpend float64
}

// CategorySpendRow is aggregate line-item spend for one booking category.
type CategorySpendRow struct {
	Category string
	Spend    float64
}

// CashOutflowRow is the projected payment obligation for one due date.
type CashOutflowRow struct {
	Date            time.Time
	ExpectedOutflow float64
}

// StatsRow holds the dashboard headline aggregates.
type StatsRow struct {
	TotalSpendYTD          float64
	TotalInvoicesProcessed int
	DocumentsUploaded      int
	AverageInvoiceValue    float64
}
