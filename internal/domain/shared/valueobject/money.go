package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD"
)

// DefaultCurrency is the currency budgets and requests are recorded in
const DefaultCurrency = USD

var currencySymbols = map[Currency]string{
	USD: "$",
}

// ErrNegativeAmount is returned when an amount that must be non-negative is below zero
var ErrNegativeAmount = errors.New("amount cannot be negative")

// Money is an immutable monetary amount
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money in the default currency
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: DefaultCurrency}
}

// ParseMoney parses a user-entered amount. Thousands separators and a leading
// currency symbol are tolerated.
func ParseMoney(raw string) (Money, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, currencySymbols[DefaultCurrency])
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return Money{}, errors.New("amount is required")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d), nil
}

// NonNegative returns an error when the amount is below zero
func (m Money) NonNegative() error {
	if m.amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Add returns the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), currency: m.Currency()}
}

// Ratio returns m / total, or zero when total is zero
func (m Money) Ratio(total Money) decimal.Decimal {
	if total.amount.IsZero() {
		return decimal.Zero
	}
	return m.amount.Div(total.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Format renders the amount the way the dashboard shows currency columns,
// e.g. "$1,234.50" or "-$12.00".
func (m Money) Format() string {
	return formatWithSymbol(m.amount, currencySymbols[m.Currency()])
}

// FormatNumber renders the amount with grouping and no currency symbol.
func (m Money) FormatNumber() string {
	return FormatDecimal(m.amount)
}

// FormatDecimal groups thousands using en-US conventions.
// Trailing zeros after the decimal point are dropped, at most 3 fraction digits are kept.
func FormatDecimal(d decimal.Decimal) string {
	p := message.NewPrinter(language.AmericanEnglish)
	rounded := d.Round(3)
	places := int(-rounded.Exponent())
	if places < 0 {
		places = 0
	}
	s := p.Sprintf(fmt.Sprintf("%%.%df", places), rounded.InexactFloat64())
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func formatWithSymbol(d decimal.Decimal, symbol string) string {
	p := message.NewPrinter(language.AmericanEnglish)
	abs := d.Round(2).Abs()
	s := symbol + p.Sprintf("%.2f", abs.InexactFloat64())
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// Value implements driver.Valuer
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("failed to scan Money: %w", err)
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}
