package currency

import (
	"testing"

	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/shopspring/decimal"
)

func clpConfig() config.SiteConfig {
	return config.SiteConfig{
		CurrencyCode:      "CLP",
		CurrencySymbol:    "$",
		CurrencyFractions: 0,
		Locale:            "es-CL",
	}
}

func TestFormatUnitsCLP(t *testing.T) {
	f := NewFormatter(clpConfig())

	tests := []struct {
		amount int64
		want   string
	}{
		{amount: 0, want: "$0"},
		{amount: 500, want: "$500"},
		{amount: 12500, want: "$12.500"},
		{amount: 1234567, want: "$1.234.567"},
	}
	for _, tt := range tests {
		if got := f.FormatUnits(tt.amount); got != tt.want {
			t.Fatalf("FormatUnits(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatFractionDigits(t *testing.T) {
	cfg := clpConfig()
	cfg.CurrencyCode = "USD"
	cfg.CurrencySymbol = "US$"
	cfg.CurrencyFractions = 2
	cfg.Locale = "en-US"

	f := NewFormatter(cfg)
	got := f.Format(decimal.NewFromFloat(1234.5))
	if got != "US$1,234.50" {
		t.Fatalf("Format = %q", got)
	}
}

func TestFormatUnknownLocaleFallsBack(t *testing.T) {
	cfg := clpConfig()
	cfg.Locale = "not-a-locale"

	f := NewFormatter(cfg)
	if got := f.FormatUnits(1000); got == "" {
		t.Fatal("expected output for fallback locale")
	}
}
