// Package whatsapp renders cart contents into the order-summary deep link the
// storefront hands off to the messaging app at checkout.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/casakiran/storefront-backend/pkg/currency"
	"github.com/shopspring/decimal"
)

const baseURL = "https://wa.me/"

// Item is one cart line as it appears in the outbound message.
type Item struct {
	Name     string
	Quantity int
	Price    int64
}

// Builder formats order messages for the configured phone number and currency.
type Builder struct {
	phone string
	fmtr  *currency.Formatter
}

// NewBuilder validates the configured phone number and returns a builder. All
// non-digit characters are stripped before the number is embedded in URLs.
func NewBuilder(cfg config.SiteConfig, fmtr *currency.Formatter) (*Builder, error) {
	phone := digitsOnly(cfg.WhatsAppPhone)
	if phone == "" {
		return nil, fmt.Errorf("whatsapp phone number is required")
	}
	if fmtr == nil {
		return nil, fmt.Errorf("currency formatter is required")
	}
	return &Builder{phone: phone, fmtr: fmtr}, nil
}

// Message renders the plain-text order summary: one line per item with its
// quantity and subtotal, then the total.
func (b *Builder) Message(items []Item, total int64) string {
	var sb strings.Builder
	sb.WriteString("¡Hola! Me interesa hacer un pedido:\n\n")

	for _, item := range items {
		subtotal := decimal.NewFromInt(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&sb, "• %s x%d - %s\n", item.Name, item.Quantity, b.fmtr.Format(subtotal))
	}

	fmt.Fprintf(&sb, "\n*Total: %s*\n\n", b.fmtr.FormatUnits(total))
	sb.WriteString("¿Podrían indicarme la disponibilidad y forma de pago?")

	return sb.String()
}

// URL percent-encodes the message and embeds it in the deep link.
func (b *Builder) URL(message string) string {
	query := url.Values{"text": {message}}
	return baseURL + b.phone + "?" + query.Encode()
}

// OrderURL is the one-shot form used by checkout.
func (b *Builder) OrderURL(items []Item, total int64) string {
	return b.URL(b.Message(items, total))
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
