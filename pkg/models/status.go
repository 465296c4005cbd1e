package models

import "time"

// InvoiceStatus is the derived display status of an invoice. It is never
// stored; every listing computes it from the due date and the backing
// document's processing status.
type InvoiceStatus string

const (
	StatusOverdue InvoiceStatus = "Overdue"
	StatusDue     InvoiceStatus = "Due"
	StatusUnknown InvoiceStatus = "Unknown"
)

// documentProcessed is the terminal processing status of the upstream
// document pipeline.
const documentProcessed = "processed"

// DeriveStatus computes the display status for an invoice.
//
// A processed invoice with a due date strictly before now is Overdue; a
// processed invoice with any due date is otherwise Due. In every other case
// the raw document status is passed through, with Unknown substituted when
// the document status is blank. This is the single status rule for the whole
// service; every listing endpoint must use it.
func DeriveStatus(dueDate *time.Time, documentStatus string, now time.Time) string {
	if dueDate != nil && documentStatus == documentProcessed {
		if dueDate.Before(now) {
			return string(StatusOverdue)
		}
		return string(StatusDue)
	}
	if documentStatus == "" {
		return string(StatusUnknown)
	}
	return documentStatus
}
