package sql

import (
	"strconv"
	"strings"
)

// Pagination bounds for listing endpoints.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// SortColumn is a validated sort key for the invoice listing. Only values
// produced by ParseSortColumn exist, so a SortColumn can be spliced into
// statement text safely.
type SortColumn string

const (
	SortByInvoiceDate   SortColumn = "invoiceDate"
	SortByInvoiceNumber SortColumn = "invoiceNumber"
	SortByAmount        SortColumn = "amount"
	SortByVendor        SortColumn = "vendor"
)

// sortColumnSQL is the closed allow-list mapping sort keys to quoted column
// identifiers. This table is the sole guard against injection through the
// sortBy parameter; raw client strings must never reach ORDER BY.
var sortColumnSQL = map[SortColumn]string{
	SortByInvoiceDate:   `i."invoiceDate"`,
	SortByInvoiceNumber: `i."invoiceNumber"`,
	SortByAmount:        `i."totalAmount"`,
	SortByVendor:        `v."vendorName"`,
}

// ParseSortColumn maps a client-supplied sort key onto the allow-list.
// Unrecognized values fall back to the default sort column rather than
// failing the request.
func ParseSortColumn(raw string) SortColumn {
	c := SortColumn(raw)
	if _, ok := sortColumnSQL[c]; ok {
		return c
	}
	return SortByInvoiceDate
}

// SQL returns the quoted column identifier for this sort key.
func (c SortColumn) SQL() string {
	if s, ok := sortColumnSQL[c]; ok {
		return s
	}
	return sortColumnSQL[SortByInvoiceDate]
}

// SortDirection is a validated ORDER BY direction.
type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// ParseSortDirection normalizes a client-supplied direction. Only a
// case-insensitive "asc" selects ascending; everything else is descending.
func ParseSortDirection(raw string) SortDirection {
	if strings.EqualFold(raw, "asc") {
		return Ascending
	}
	return Descending
}

// ListSpec is the normalized, request-scoped query specification for the
// invoice listing. Construct it with NormalizeListSpec; the zero value is
// not valid.
type ListSpec struct {
	Search    string
	Sort      SortColumn
	Direction SortDirection
	Page      int
	PerPage   int
}

// NormalizeListSpec builds a ListSpec from untrusted request parameters.
// Invalid or non-numeric paging input falls back to defaults, page is
// floored at 1 and perPage clamped to [1, MaxPerPage].
func NormalizeListSpec(search, sortBy, order, page, perPage string) ListSpec {
	return ListSpec{
		Search:    search,
		Sort:      ParseSortColumn(sortBy),
		Direction: ParseSortDirection(order),
		Page:      clamp(parseIntSafe(page, DefaultPage), 1, 1<<30),
		PerPage:   clamp(parseIntSafe(perPage, DefaultPerPage), 1, MaxPerPage),
	}
}

// Offset returns the row offset for the requested page.
func (s ListSpec) Offset() int {
	return (s.Page - 1) * s.PerPage
}

func parseIntSafe(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
