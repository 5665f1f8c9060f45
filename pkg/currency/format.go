// Package currency renders prices with locale-aware grouping and a
// configurable fraction-digit policy.
package currency

import (
	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders monetary amounts for one configured currency.
type Formatter struct {
	symbol  string
	digits  int
	printer *message.Printer
}

// NewFormatter builds a formatter for the site's currency settings. Unknown
// locales fall back to Spanish grouping rather than failing.
func NewFormatter(cfg config.SiteConfig) *Formatter {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.Spanish
	}
	digits := cfg.CurrencyFractions
	if digits < 0 {
		digits = 0
	}
	return &Formatter{
		symbol:  cfg.CurrencySymbol,
		digits:  digits,
		printer: message.NewPrinter(tag),
	}
}

// Format renders the amount with the currency symbol, locale digit grouping,
// and the configured number of fraction digits.
func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded, _ := amount.Round(int32(f.digits)).Float64()
	return f.symbol + f.printer.Sprint(number.Decimal(rounded, number.Scale(f.digits)))
}

// FormatUnits renders an amount expressed in whole currency units.
func (f *Formatter) FormatUnits(amount int64) string {
	return f.Format(decimal.NewFromInt(amount))
}
