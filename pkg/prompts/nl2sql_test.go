package prompts

import (
	"strings"
	"testing"
)

func TestBuildNL2SQLPrompt(t *testing.T) {
	prompt := BuildNL2SQLPrompt("total spend per vendor last quarter")

	if !strings.Contains(prompt, `"total spend per vendor last quarter"`) {
		t.Error("prompt should embed the question")
	}

	// Every permitted table must be enumerated.
	for _, table := range []string{`"invoices"`, `"vendors"`, `"customers"`, `"line_items"`, `"payment_details"`} {
		if !strings.Contains(prompt, table) {
			t.Errorf("prompt missing table %s", table)
		}
	}

	// Join rules must be present.
	if !strings.Contains(prompt, "invoices.vendorId = vendors.id") {
		t.Error("prompt missing vendor join rule")
	}
	if !strings.Contains(prompt, "payment_details.invoiceDocumentId = invoices.documentId") {
		t.Error("prompt missing payment details join rule")
	}

	// Output format instruction.
	if !strings.Contains(prompt, "Do not include markdown") {
		t.Error("prompt missing output format instruction")
	}
}
