// Package ingest loads the document extraction pipeline's JSON export into
// the invoice schema. The export wraps most leaf values in {"value": ...}
// envelopes and carries free-text numbers and dates, so everything passes
// through the extraction helpers before it is typed.
package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one exported document with its extracted invoice data.
// The llmData tree is schemaless; Transform walks it with the extraction
// helpers instead of binding it to types.
type RawRecord struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	FilePath       string         `json:"filePath"`
	FileType       string         `json:"fileType"`
	FileSize       any            `json:"fileSize"`
	Status         string         `json:"status"`
	CreatedAt      any            `json:"createdAt"`
	UpdatedAt      any            `json:"updatedAt"`
	ProcessedAt    any            `json:"processedAt"`
	ExtractedData  *ExtractedData `json:"extractedData"`
}

// ExtractedData wraps the LLM extraction output.
type ExtractedData struct {
	LLMData map[string]any `json:"llmData"`
}

// VendorEntity is a deduplicated vendor keyed by name.
type VendorEntity struct {
	VendorName        string
	VendorAddress     *string
	VendorTaxID       *string
	VendorPartyNumber *string
}

// CustomerEntity is a deduplicated customer keyed by name.
type CustomerEntity struct {
	CustomerName    string
	CustomerAddress *string
	CustomerTaxID   *string
}

// LineItemEntity is one extracted invoice line.
type LineItemEntity struct {
	LineNumber   float64
	Description  *string
	Quantity     *float64
	UnitPrice    *float64
	TotalPrice   *float64
	Sachkonto    string
	BUSchluessel string
	VatRate      *float64
	VatAmount    *float64
}

// PaymentEntity is the extracted payment terms for one invoice.
type PaymentEntity struct {
	DueDate           *time.Time
	PaymentTerms      *string
	BankAccountNumber *string
	BIC               *string
	AccountName       *string
	NetDays           *float64
	DiscountPercent   *float64
	DiscountDays      *float64
	DiscountDueDate   *time.Time
	DiscountedTotal   *float64
}

// DocumentBundle is the normalized outcome of one record: the document row
// plus the invoice and its satellites, with vendor and customer still keyed
// by name for later id resolution.
type DocumentBundle struct {
	DocumentID  string
	Name        string
	FilePath    string
	FileType    string
	FileSize    *float64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time

	VendorName   string
	Vendor       *VendorEntity
	CustomerName string
	Customer     *CustomerEntity

	InvoiceNumber *string
	InvoiceDate   time.Time
	DeliveryDate  *time.Time
	DocumentType  *string
	TotalAmount   float64
	TotalTax      *float64
	SubTotal      *float64
	Currency      *string

	Payment   *PaymentEntity
	LineItems []LineItemEntity
}

// fallbackInvoiceDate is used when a record has no parseable invoice date,
// keeping the row visible in listings while clearly marking it stale.
var fallbackInvoiceDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Transform normalizes one export record. It returns nil when the record
// carries no extraction data or no invoice total; such records never reach
// the database. A record without a resolvable vendor still yields its
// document row, and the loader skips only the invoice and its satellites.
func Transform(record *RawRecord) *DocumentBundle {
	if record.ExtractedData == nil || record.ExtractedData.LLMData == nil {
		return nil
	}
	llmData := record.ExtractedData.LLMData

	vendorData := valueMap(llmData["vendor"])
	customerData := valueMap(llmData["customer"])
	invoiceData := valueMap(llmData["invoice"])
	paymentData := valueMap(llmData["payment"])
	summaryData := valueMap(llmData["summary"])

	totalAmount := extractNumber(summaryData["invoiceTotal"])
	if totalAmount == nil {
		return nil
	}

	status := record.Status
	if status == "" {
		status = "uploaded"
	}
	fileType := record.FileType
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	now := time.Now().UTC()
	createdAt := extractDate(record.CreatedAt)
	if createdAt == nil {
		createdAt = &now
	}
	updatedAt := extractDate(record.UpdatedAt)
	if updatedAt == nil {
		updatedAt = &now
	}

	invoiceDate := extractDate(invoiceData["invoiceDate"])
	if invoiceDate == nil {
		invoiceDate = &fallbackInvoiceDate
	}

	bundle := &DocumentBundle{
		DocumentID:  record.ID,
		Name:        record.Name,
		FilePath:    record.FilePath,
		FileType:    fileType,
		FileSize:    extractNumber(record.FileSize),
		Status:      status,
		CreatedAt:   *createdAt,
		UpdatedAt:   *updatedAt,
		ProcessedAt: extractDate(record.ProcessedAt),

		InvoiceNumber: extractString(invoiceData["invoiceId"]),
		InvoiceDate:   *invoiceDate,
		DeliveryDate:  extractDate(invoiceData["deliveryDate"]),
		DocumentType:  extractString(summaryData["documentType"]),
		TotalAmount:   *totalAmount,
		TotalTax:      extractNumber(summaryData["totalTax"]),
		SubTotal:      extractNumber(summaryData["subTotal"]),
		Currency:      extractString(summaryData["currencySymbol"]),
	}

	if vendorName := extractString(vendorData["vendorName"]); vendorName != nil {
		bundle.VendorName = *vendorName
		bundle.Vendor = &VendorEntity{
			VendorName:        *vendorName,
			VendorAddress:     extractString(vendorData["vendorAddress"]),
			VendorTaxID:       extractString(vendorData["vendorTaxId"]),
			VendorPartyNumber: extractString(vendorData["vendorPartyNumber"]),
		}
	}

	if customerName := extractString(customerData["customerName"]); customerName != nil {
		bundle.CustomerName = *customerName
		bundle.Customer = &CustomerEntity{
			CustomerName:    *customerName,
			CustomerAddress: extractString(customerData["customerAddress"]),
			CustomerTaxID:   extractString(customerData["customerTaxId"]),
		}
	}

	bundle.Payment = transformPayment(paymentData)
	bundle.LineItems = transformLineItems(llmData["lineItems"])

	return bundle
}

// transformPayment returns nil when every payment field is absent, so empty
// payment envelopes produce no row.
func transformPayment(paymentData map[string]any) *PaymentEntity {
	payment := &PaymentEntity{
		DueDate:           extractDate(paymentData["dueDate"]),
		PaymentTerms:      extractString(paymentData["paymentTerms"]),
		BankAccountNumber: extractString(paymentData["bankAccountNumber"]),
		BIC:               extractString(paymentData["BIC"]),
		AccountName:       extractString(paymentData["accountName"]),
		NetDays:           extractNumber(paymentData["netDays"]),
		DiscountPercent:   extractNumber(paymentData["discountPercentage"]),
		DiscountDays:      extractNumber(paymentData["discountDays"]),
		DiscountDueDate:   extractDate(paymentData["discountDueDate"]),
		DiscountedTotal:   extractNumber(paymentData["discountedTotal"]),
	}

	if payment.DueDate == nil && payment.PaymentTerms == nil &&
		payment.BankAccountNumber == nil && payment.BIC == nil &&
		payment.AccountName == nil && payment.NetDays == nil &&
		payment.DiscountPercent == nil && payment.DiscountDays == nil &&
		payment.DiscountDueDate == nil && payment.DiscountedTotal == nil {
		return nil
	}
	return payment
}

func transformLineItems(raw any) []LineItemEntity {
	itemsRaw := unwrap(raw)

	// Two nesting variants exist in the export: lineItems.value.items.value
	// and lineItems.value directly holding the array.
	if m, ok := itemsRaw.(map[string]any); ok {
		itemsRaw = unwrap(m["items"])
	}

	list, ok := itemsRaw.([]any)
	if !ok {
		return nil
	}

	items := make([]LineItemEntity, 0, len(list))
	for i, entry := range list {
		fields, ok := unwrap(entry).(map[string]any)
		if !ok {
			continue
		}

		lineNumber := extractNumber(fields["srNo"])
		if lineNumber == nil {
			n := float64(i + 1)
			lineNumber = &n
		}

		items = append(items, LineItemEntity{
			LineNumber:   *lineNumber,
			Description:  extractString(fields["description"]),
			Quantity:     extractNumber(fields["quantity"]),
			UnitPrice:    extractNumber(fields["unitPrice"]),
			TotalPrice:   extractNumber(fields["totalPrice"]),
			Sachkonto:    extractCode(fields["Sachkonto"]),
			BUSchluessel: extractCode(fields["BUSchluessel"]),
			VatRate:      extractNumber(fields["vatRate"]),
			VatAmount:    extractNumber(fields["vatAmount"]),
		})
	}
	return items
}

// unwrap peels {"value": ...} and {"$numberLong": ...} envelopes off a leaf.
func unwrap(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if inner, exists := m["value"]; exists {
		return inner
	}
	if inner, exists := m["$numberLong"]; exists {
		return inner
	}
	return v
}

// valueMap unwraps an envelope and asserts the payload is an object.
func valueMap(v any) map[string]any {
	if m, ok := unwrap(v).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// extractString returns the trimmed string form of a leaf, or nil for
// absent, empty or non-text values.
func extractString(v any) *string {
	s, ok := unwrap(v).(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// extractCode renders booking codes as text even when the export carries
// them as numbers.
func extractCode(v any) string {
	switch value := unwrap(v).(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return decimal.NewFromFloat(value).String()
	default:
		return ""
	}
}

// numberJunk strips currency symbols and grouping noise before parsing.
var numberJunk = regexp.MustCompile(`[^\d.,-]`)

// extractNumber parses a leaf as a number, tolerating currency symbols and
// comma decimal separators in string values. Returns nil when nothing
// parseable remains.
func extractNumber(v any) *float64 {
	switch value := unwrap(v).(type) {
	case float64:
		return &value
	case string:
		cleaned := numberJunk.ReplaceAllString(value, "")
		// The rightmost separator is the decimal point; the other kind is
		// grouping noise.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return nil
		}
		f, _ := d.Float64()
		return &f
	default:
		return nil
	}
}

// dateLayouts are the formats observed in the export, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// extractDate parses a leaf as a timestamp. Returns nil for absent or
// unparseable values.
func extractDate(v any) *time.Time {
	s, ok := unwrap(v).(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
