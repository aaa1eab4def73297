// Package identifier formats transaction IDs and receipt numbers.
//
// Every format is a pure function of its inputs. Transaction IDs draw characters
// from the supplied random source and may collide; receipt numbers are derived from
// the sale sequence and are unique whenever the sequence is.
package identifier

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TransactionFormat selects how a transaction ID is built.
type TransactionFormat string

const (
	TxRandom           TransactionFormat = "random"              // A7K2Q9XZ
	TxPrefixRandom     TransactionFormat = "prefix_random"       // TXN-A7K2Q9XZ
	TxPrefixDateRandom TransactionFormat = "prefix_date_random"  // TXN-20240501-A7K2Q9XZ
	TxNumeric          TransactionFormat = "numeric"             // 48201937
	TxAlpha            TransactionFormat = "alpha"               // QKZTRAMB
	TxPrefixNumeric    TransactionFormat = "prefix_numeric"      // TXN-48201937
	TxPrefixDateNumber TransactionFormat = "prefix_date_numeric" // TXN-20240501-48201937
)

// ReceiptFormat selects how a receipt number is built from the sale sequence.
type ReceiptFormat string

const (
	ReceiptNumberOnly       ReceiptFormat = "number"             // 000042
	ReceiptPrefixNumber     ReceiptFormat = "prefix_number"      // RCP-000042
	ReceiptDateNumber       ReceiptFormat = "date_number"        // 20240501-000042
	ReceiptPrefixDateNumber ReceiptFormat = "prefix_date_number" // RCP-20240501-000042
	ReceiptPrefixYearNumber ReceiptFormat = "prefix_year_number" // RCP-2024-000042
)

const (
	alphabetMixed   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	alphabetAlpha   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphabetNumeric = "0123456789"

	defaultLength  = 8
	defaultPadding = 6
)

// Seed carries the inputs a transaction ID is derived from.
type Seed struct {
	Now  time.Time
	Rand *rand.Rand
}

// ParseTransactionFormat validates a configured transaction format.
func ParseTransactionFormat(s string) (TransactionFormat, error) {
	switch f := TransactionFormat(s); f {
	case TxRandom, TxPrefixRandom, TxPrefixDateRandom, TxNumeric, TxAlpha, TxPrefixNumeric, TxPrefixDateNumber:
		return f, nil
	}
	return "", fmt.Errorf("unknown transaction id format %q", s)
}

// ParseReceiptFormat validates a configured receipt format.
func ParseReceiptFormat(s string) (ReceiptFormat, error) {
	switch f := ReceiptFormat(s); f {
	case ReceiptNumberOnly, ReceiptPrefixNumber, ReceiptDateNumber, ReceiptPrefixDateNumber, ReceiptPrefixYearNumber:
		return f, nil
	}
	return "", fmt.Errorf("unknown receipt number format %q", s)
}

// TransactionID formats a transaction ID. length is the size of the random part.
func TransactionID(format TransactionFormat, prefix, sep string, length int, seed Seed) string {
	if length <= 0 {
		length = defaultLength
	}
	date := seed.Now.Format("20060102")

	switch format {
	case TxPrefixRandom:
		return join(sep, prefix, randomString(seed.Rand, alphabetMixed, length))
	case TxPrefixDateRandom:
		return join(sep, prefix, date, randomString(seed.Rand, alphabetMixed, length))
	case TxNumeric:
		return randomString(seed.Rand, alphabetNumeric, length)
	case TxAlpha:
		return randomString(seed.Rand, alphabetAlpha, length)
	case TxPrefixNumeric:
		return join(sep, prefix, randomString(seed.Rand, alphabetNumeric, length))
	case TxPrefixDateNumber:
		return join(sep, prefix, date, randomString(seed.Rand, alphabetNumeric, length))
	default:
		return randomString(seed.Rand, alphabetMixed, length)
	}
}

// ReceiptNumber formats the receipt number for the sale with the given sequence.
func ReceiptNumber(seq int64, format ReceiptFormat, prefix, sep string, padding int, at time.Time) string {
	if padding <= 0 {
		padding = defaultPadding
	}
	num := zeroPad(seq, padding)

	switch format {
	case ReceiptNumberOnly:
		return num
	case ReceiptPrefixNumber:
		return join(sep, prefix, num)
	case ReceiptDateNumber:
		return join(sep, at.Format("20060102"), num)
	case ReceiptPrefixYearNumber:
		return join(sep, prefix, at.Format("2006"), num)
	default:
		return join(sep, prefix, at.Format("20060102"), num)
	}
}

func zeroPad(n int64, width int) string {
	s := strconv.FormatInt(n, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func randomString(r *rand.Rand, alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		var idx int
		if r != nil {
			idx = r.IntN(len(alphabet))
		} else {
			idx = rand.IntN(len(alphabet))
		}
		b[i] = alphabet[idx]
	}
	return string(b)
}

// join skips empty parts so an unset prefix does not leave a dangling separator.
func join(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Config is the configured identifier scheme.
type Config struct {
	TransactionFormat TransactionFormat
	TransactionPrefix string
	RandomLength      int
	ReceiptFormat     ReceiptFormat
	ReceiptPrefix     string
	Separator         string
	ReceiptPadding    int
}

// Generator applies a Config with a shared random source.
type Generator struct {
	cfg Config
	now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator(cfg Config) *Generator {
	seed := uint64(time.Now().UnixNano())
	return &Generator{
		cfg: cfg,
		now: time.Now,
		rnd: rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// NewGeneratorWithSeed creates a generator with a deterministic random source and clock.
func NewGeneratorWithSeed(cfg Config, r *rand.Rand, now func() time.Time) *Generator {
	return &Generator{cfg: cfg, now: now, rnd: r}
}

// NextTransactionID returns a new transaction ID.
func (g *Generator) NextTransactionID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return TransactionID(g.cfg.TransactionFormat, g.cfg.TransactionPrefix, g.cfg.Separator, g.cfg.RandomLength, Seed{
		Now:  g.now(),
		Rand: g.rnd,
	})
}

// ReceiptNumber returns the receipt number for a sale sequence.
func (g *Generator) ReceiptNumber(seq int64, at time.Time) string {
	return ReceiptNumber(seq, g.cfg.ReceiptFormat, g.cfg.ReceiptPrefix, g.cfg.Separator, g.cfg.ReceiptPadding, at)
}
