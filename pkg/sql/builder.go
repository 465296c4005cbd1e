// Package sql assembles parameterized statements from untrusted request
// input and gates LLM-generated SQL before execution. Request values only
// ever travel as bound parameters; the sole raw splice points are the closed
// sort-column and direction enums.
package sql

import (
	"fmt"
	"strings"
	"time"
)

// Statement is a SQL text plus its ordered positional arguments. A Statement
// and its args are produced per request and discarded after execution.
type Statement struct {
	SQL  string
	Args []any
}

// Builder accumulates WHERE conditions with positional placeholders. Bind
// appends a value to the argument list and returns its $n placeholder, which
// is the only way a request-derived value enters statement text.
type Builder struct {
	conds []string
	args  []any
}

// Bind registers a parameter value and returns its placeholder.
func (b *Builder) Bind(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// Where adds a condition fragment. The fragment must reference parameters
// through placeholders obtained from Bind.
func (b *Builder) Where(cond string) {
	b.conds = append(b.conds, cond)
}

// WhereClause renders the accumulated conditions, or an empty string when
// there are none.
func (b *Builder) WhereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// Args returns the ordered argument list.
func (b *Builder) Args() []any {
	return b.args
}

// invoiceListFrom is shared by the data and count statements so both run
// against the same logical row set.
const invoiceListFrom = `
FROM "invoices" i
JOIN "vendors" v ON v.id = i."vendorId"
LEFT JOIN "payment_details" pd ON pd."invoiceDocumentId" = i."documentId"
JOIN "documents" d ON d.id = i."documentId"`

// BuildInvoiceList produces the page statement and the matching count
// statement for the invoice listing. Both share identical FROM/WHERE clauses
// and the same argument list; the caller must run them in one transaction.
//
// The secondary documentId sort key makes pagination deterministic when the
// primary sort column has duplicate values.
func BuildInvoiceList(spec ListSpec) (data Statement, count Statement) {
	var b Builder

	if search := strings.TrimSpace(spec.Search); search != "" {
		pattern := "%" + search + "%"
		b.Where(fmt.Sprintf(`(v."vendorName" ILIKE %s OR i."invoiceNumber" ILIKE %s)`,
			b.Bind(pattern), b.Bind(pattern)))
	}

	where := b.WhereClause()

	dataSQL := fmt.Sprintf(`SELECT
    i."documentId",
    COALESCE(i."invoiceNumber", '') AS "invoiceNumber",
    i."invoiceDate",
    v."vendorName",
    i."totalAmount"::float8 AS "totalAmount",
    pd."dueDate",
    d.status AS "documentStatus"%s
%s
ORDER BY %s %s, i."documentId" ASC
LIMIT %s OFFSET %s`,
		invoiceListFrom,
		where,
		spec.Sort.SQL(), spec.Direction,
		// limit/offset are server-computed ints but still travel as
		// parameters to keep the statement text value-free
		b.Bind(spec.PerPage), b.Bind(spec.Offset()))

	countArgs := b.Args()[:len(b.Args())-2]

	countSQL := fmt.Sprintf(`SELECT COUNT(i."documentId")::int AS total%s
%s`, invoiceListFrom, where)

	return Statement{SQL: dataSQL, Args: b.Args()}, Statement{SQL: countSQL, Args: countArgs}
}

// CashOutflowMaxRows caps the projection horizon.
const CashOutflowMaxRows = 365

// BuildCashOutflow produces the cash-outflow aggregation. A nil from bound
// defaults to the current date, so the projection is forward-looking unless
// the caller asks for history explicitly. A nil to bound leaves the upper
// end open.
func BuildCashOutflow(from, to *time.Time) Statement {
	var b Builder

	if from != nil {
		b.Where(fmt.Sprintf(`pd."dueDate" >= %s`, b.Bind(*from)))
	} else {
		b.Where(`pd."dueDate" >= CURRENT_DATE`)
	}
	if to != nil {
		b.Where(fmt.Sprintf(`pd."dueDate" <= %s`, b.Bind(*to)))
	}

	sql := fmt.Sprintf(`SELECT
    pd."dueDate"::date AS date,
    SUM(COALESCE(pd."discountedTotal", i."totalAmount", 0))::float8 AS expected_outflow
FROM "payment_details" pd
JOIN "invoices" i ON i."documentId" = pd."invoiceDocumentId"
%s
GROUP BY 1
ORDER BY 1
LIMIT %d`, b.WhereClause(), CashOutflowMaxRows)

	return Statement{SQL: sql, Args: b.Args()}
}
