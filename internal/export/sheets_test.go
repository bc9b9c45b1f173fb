package export

import (
	"context"
	"testing"
)

func TestEuros(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{120050, "1200.50"},
		{-170000, "-1700.00"},
		{99, "0.99"},
	}
	for _, tt := range tests {
		if got := euros(tt.cents); got != tt.want {
			t.Errorf("euros(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(context.Background(), Options{SpreadsheetID: "sheet-id"}); err == nil {
		t.Fatal("expected error without credentials")
	}
	if _, err := New(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
}
