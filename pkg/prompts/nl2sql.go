// Package prompts builds the prompts sent to the completion API.
package prompts

import "fmt"

// NL2SQLSystemMessage pins the model into the translator role.
const NL2SQLSystemMessage = "You are a data-to-SQL translator for PostgreSQL. Follow all user rules strictly."

// schemaDescription enumerates every table and column the model is
// permitted to reference, plus the join rules between them. It is embedded
// verbatim in every prompt; the model must not see anything beyond it.
const schemaDescription = `Use ONLY the following tables and their columns:
1. "invoices" (i): documentId, invoiceNumber, invoiceDate, deliveryDate, documentType, totalAmount, totalTax, subTotal, currency, vendorId, customerId
2. "vendors" (v): id, vendorName, vendorAddress, vendorTaxId
3. "customers" (c): id, customerName, customerAddress, customerTaxId
4. "line_items" (li): id, invoiceDocumentId, line_number, description, quantity, unitPrice, totalPrice, Sachkonto, BUSchluessel
5. "payment_details" (pd): invoiceDocumentId, dueDate, paymentTerms, bankAccountNumber

RULES:
- When referencing columns in joins, use double quotes and camelCase (e.g., i."invoiceDate").
- Use aliases (i, v, c, li, pd) for brevity.
- Join tables using foreign keys:
    - invoices.vendorId = vendors.id
    - invoices.customerId = customers.id
    - line_items.invoiceDocumentId = invoices.documentId
    - payment_details.invoiceDocumentId = invoices.documentId
- Always output a valid PostgreSQL SELECT query. Do not include markdown, explanations, or quotes around the SQL.`

// BuildNL2SQLPrompt creates the user prompt for translating a free-text
// question into a SELECT statement over the invoice schema.
func BuildNL2SQLPrompt(question string) string {
	return fmt.Sprintf(`You are an expert SQL data analyst for a PostgreSQL database.
Your task is to write a valid SQL SELECT query to answer the following question:
%q

%s`, question, schemaDescription)
}
