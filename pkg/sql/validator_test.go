package sql

import (
	"errors"
	"testing"

	"github.com/spendlens/spendlens/pkg/apperrors"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain SQL untouched", "SELECT 1", "SELECT 1"},
		{"sql fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"bare fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"uppercase fence", "```SQL\nSELECT 1\n```", "SELECT 1"},
		{"surrounding whitespace", "  SELECT 1  \n", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateAndNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "plain select",
			input: "SELECT * FROM invoices",
			want:  "SELECT * FROM invoices",
		},
		{
			name:  "trailing semicolon stripped",
			input: "SELECT 1;",
			want:  "SELECT 1",
		},
		{
			name:  "trailing semicolon with whitespace",
			input: "SELECT 1 ;  \n",
			want:  "SELECT 1",
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "statement chaining",
			input:   "SELECT 1; DROP TABLE invoices",
			wantErr: apperrors.ErrUnsafeSQL,
		},
		{
			name:  "semicolon inside string literal is fine",
			input: `SELECT * FROM invoices WHERE "invoiceNumber" = 'INV;2026'`,
			want:  `SELECT * FROM invoices WHERE "invoiceNumber" = 'INV;2026'`,
		},
		{
			name:  "semicolon inside quoted identifier is fine",
			input: `SELECT "weird;name" FROM t`,
			want:  `SELECT "weird;name" FROM t`,
		},
		{
			name:  "escaped quote does not end literal",
			input: `SELECT * FROM t WHERE name = 'O''Brien; Co'`,
			want:  `SELECT * FROM t WHERE name = 'O''Brien; Co'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAndNormalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("normalized = %q, want %q", got, tt.want)
			}
		})
	}
}
