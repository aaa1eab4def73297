package identifier

import (
	"math/rand/v2"
	"regexp"
	"testing"
	"time"
)

func TestReceiptNumber(t *testing.T) {
	day := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		seq     int64
		format  ReceiptFormat
		prefix  string
		sep     string
		padding int
		want    string
	}{
		{"prefix date number", 42, ReceiptPrefixDateNumber, "RCP", "-", 6, "RCP-20240501-000042"},
		{"number only", 42, ReceiptNumberOnly, "RCP", "-", 6, "000042"},
		{"prefix number", 7, ReceiptPrefixNumber, "INV", "/", 4, "INV/0007"},
		{"date number", 1, ReceiptDateNumber, "", "-", 3, "20240501-001"},
		{"prefix year number", 1234, ReceiptPrefixYearNumber, "R", "-", 6, "R-2024-001234"},
		{"sequence wider than padding", 1234567, ReceiptPrefixNumber, "R", "-", 4, "R-1234567"},
		{"default padding", 5, ReceiptNumberOnly, "", "", 0, "000005"},
		{"empty prefix skipped", 42, ReceiptPrefixDateNumber, "", "-", 6, "20240501-000042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReceiptNumber(tt.seq, tt.format, tt.prefix, tt.sep, tt.padding, day)
			if got != tt.want {
				t.Errorf("ReceiptNumber() = %q, want %q", got, tt.want)
			}
			// Deterministic under repeated calls.
			if again := ReceiptNumber(tt.seq, tt.format, tt.prefix, tt.sep, tt.padding, day); again != got {
				t.Errorf("ReceiptNumber() not stable: %q then %q", got, again)
			}
		})
	}
}

func TestTransactionIDShapes(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		format  TransactionFormat
		pattern string
	}{
		{TxRandom, `^[A-HJ-NP-Z2-9]{10}$`},
		{TxPrefixRandom, `^TXN-[A-HJ-NP-Z2-9]{10}$`},
		{TxPrefixDateRandom, `^TXN-20240501-[A-HJ-NP-Z2-9]{10}$`},
		{TxNumeric, `^[0-9]{10}$`},
		{TxAlpha, `^[A-Z]{10}$`},
		{TxPrefixNumeric, `^TXN-[0-9]{10}$`},
		{TxPrefixDateNumber, `^TXN-20240501-[0-9]{10}$`},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			seed := Seed{Now: now, Rand: rand.New(rand.NewPCG(1, 2))}
			got := TransactionID(tt.format, "TXN", "-", 10, seed)
			if !regexp.MustCompile(tt.pattern).MatchString(got) {
				t.Errorf("TransactionID(%s) = %q, does not match %s", tt.format, got, tt.pattern)
			}
		})
	}
}

func TestTransactionIDIsPureForSeed(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	a := TransactionID(TxPrefixDateRandom, "TXN", "-", 8, Seed{Now: now, Rand: rand.New(rand.NewPCG(7, 7))})
	b := TransactionID(TxPrefixDateRandom, "TXN", "-", 8, Seed{Now: now, Rand: rand.New(rand.NewPCG(7, 7))})
	if a != b {
		t.Fatalf("same seed produced %q and %q", a, b)
	}
}

func TestParseFormats(t *testing.T) {
	if _, err := ParseTransactionFormat("prefix_date_random"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseTransactionFormat("uuid"); err == nil {
		t.Fatalf("expected error for unknown transaction format")
	}
	if _, err := ParseReceiptFormat("prefix_year_number"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseReceiptFormat("roman"); err == nil {
		t.Fatalf("expected error for unknown receipt format")
	}
}

func TestGenerator(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	g := NewGeneratorWithSeed(Config{
		TransactionFormat: TxPrefixNumeric,
		TransactionPrefix: "T",
		RandomLength:      6,
		ReceiptFormat:     ReceiptPrefixDateNumber,
		ReceiptPrefix:     "RCP",
		Separator:         "-",
		ReceiptPadding:    6,
	}, rand.New(rand.NewPCG(3, 4)), func() time.Time { return now })

	if got := g.ReceiptNumber(42, now); got != "RCP-20240501-000042" {
		t.Errorf("ReceiptNumber() = %q", got)
	}
	if id := g.NextTransactionID(); !regexp.MustCompile(`^T-[0-9]{6}$`).MatchString(id) {
		t.Errorf("NextTransactionID() = %q", id)
	}
}
