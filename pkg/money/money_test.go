package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		cents int64
		rate  string
		want  int64
	}{
		{10000, "16", 1600},
		{999, "16", 160}, // 159.84
		{125, "10", 13},  // 12.5 rounds up
		{0, "16", 0},
		{5000, "0", 0},
		{3333, "7.5", 250}, // 249.975
	}

	for _, tt := range tests {
		got := Percent(tt.cents, decimal.RequireFromString(tt.rate))
		if got != tt.want {
			t.Errorf("Percent(%d, %s) = %d, want %d", tt.cents, tt.rate, got, tt.want)
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	if got := ToCents(decimal.RequireFromString("12.345")); got != 1235 {
		t.Errorf("ToCents(12.345) = %d, want 1235", got)
	}
	if got := FromCents(1999).String(); got != "19.99" {
		t.Errorf("FromCents(1999) = %s, want 19.99", got)
	}
	if got := Float(250); got != 2.5 {
		t.Errorf("Float(250) = %v, want 2.5", got)
	}
}
