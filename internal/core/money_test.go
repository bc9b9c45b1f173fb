package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "simple decimal", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "integer", input: "3500", want: 350000},
		{name: "single fractional digit", input: "8.5", want: 850},
		{name: "third digit rounds down", input: "12.345", want: 1234},
		{name: "third digit rounds up", input: "12.346", want: 1235},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-5", want: -500},
		{name: "negative decimal", input: "-0.01", want: -1},
		{name: "explicit plus", input: "+2.50", want: 250},
		{name: "leading dot", input: ".75", want: 75},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
		{name: "lone dot", input: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		wire  string
	}{
		{name: "positive", cents: 1234, wire: "12.34"},
		{name: "whole", cents: 350000, wire: "3500.00"},
		{name: "zero", cents: 0, wire: "0.00"},
		{name: "negative", cents: -170050, wire: "-1700.50"},
		{name: "sub-unit", cents: 7, wire: "0.07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(Money{Cents: tt.cents})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.wire {
				t.Errorf("marshal = %s, want %s", out, tt.wire)
			}

			var back Money
			if err := json.Unmarshal(out, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back.Cents != tt.cents {
				t.Errorf("round trip = %d cents, want %d", back.Cents, tt.cents)
			}
		})
	}
}

func TestMoneyUnmarshalFromNumber(t *testing.T) {
	var payload struct {
		Valor Money `json:"valor"`
	}
	if err := json.Unmarshal([]byte(`{"valor": 1200.5}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Valor.Cents != 120050 {
		t.Errorf("Valor = %d cents, want 120050", payload.Valor.Cents)
	}
}
