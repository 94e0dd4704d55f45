package sanitizer

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizePrice_EquivalentForms(t *testing.T) {
	// The same price arrives as a number, a formatted string, and a
	// wrapped object; all must normalize to the identical value.
	forms := []struct {
		name string
		raw  any
	}{
		{"plain number", float64(42)},
		{"integer", 42},
		{"formatted string", "R 42.00"},
		{"wrapped object", map[string]any{"value": 42}},
		{"bson document", primitive.M{"value": float64(42)}},
	}

	for _, tt := range forms {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePrice(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != 42.0 {
				t.Errorf("expected 42.0, got %v", got)
			}
		})
	}
}

func TestNormalizePrice_StringForms(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{"thousands separator", "R 1,250.00", 1250.00, false},
		{"no currency symbol", "1250", 1250, false},
		{"decimal only", "99.99", 99.99, false},
		{"spaces inside", "R 10 000.50", 10000.50, false},
		{"empty string", "", 0, true},
		{"letters only", "free", 0, true},
		{"currency symbol only", "R ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePrice(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizePrice_NonNumericIsErrorNotZero(t *testing.T) {
	// A broken price must fail validation, never silently become zero.
	cases := []any{nil, "N/A", map[string]any{"amount": 42}, map[string]any{"value": "oops"}, []string{"42"}}
	for _, raw := range cases {
		if _, err := NormalizePrice(raw); err == nil {
			t.Errorf("expected error for %#v", raw)
		}
	}
}

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{42.0, 4200},
		{1250.00, 125000},
		{99.999, 10000},
		{0.1, 10},
	}

	for _, tt := range tests {
		if got := AmountInCents(tt.price); got != tt.want {
			t.Errorf("AmountInCents(%v): expected %d, got %d", tt.price, tt.want, got)
		}
	}
}

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Honeymoon   Suite ", "Honeymoon Suite"},
		{"\tStandard\nRoom", "Standard Room"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TrimAndNormalize(tt.in); got != tt.want {
			t.Errorf("TrimAndNormalize(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
