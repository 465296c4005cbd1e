package models

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name           string
		dueDate        *time.Time
		documentStatus string
		want           string
	}{
		{
			name:           "processed and past due is overdue",
			dueDate:        &past,
			documentStatus: "processed",
			want:           "Overdue",
		},
		{
			name:           "processed with future due date is due",
			dueDate:        &future,
			documentStatus: "processed",
			want:           "Due",
		},
		{
			name:           "due date exactly now is not overdue",
			dueDate:        &now,
			documentStatus: "processed",
			want:           "Due",
		},
		{
			name:           "processed without due date passes through",
			dueDate:        nil,
			documentStatus: "processed",
			want:           "processed",
		},
		{
			name:           "unprocessed document passes raw status through",
			dueDate:        &past,
			documentStatus: "pending",
			want:           "pending",
		},
		{
			name:           "failed document passes raw status through",
			dueDate:        nil,
			documentStatus: "failed",
			want:           "failed",
		},
		{
			name:           "blank document status becomes Unknown",
			dueDate:        nil,
			documentStatus: "",
			want:           "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.dueDate, tt.documentStatus, now); got != tt.want {
				t.Errorf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
