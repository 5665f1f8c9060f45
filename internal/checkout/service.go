package checkout

import (
	"context"
	"fmt"

	"github.com/casakiran/storefront-backend/internal/cart"
	"github.com/casakiran/storefront-backend/pkg/currency"
	"github.com/casakiran/storefront-backend/pkg/db/models"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/casakiran/storefront-backend/pkg/whatsapp"
	"github.com/google/uuid"
)

type cartLoader interface {
	Load(ctx context.Context, sessionID string) (*cart.Store, error)
}

type productSource interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Warning reports a line whose snapshot drifted from the catalog. The
// order proceeds with the current value.
type Warning struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	Message       string    `json:"message"`
	SnapshotPrice int64     `json:"snapshot_price"`
	CurrentPrice  int64     `json:"current_price"`
}

// Conflict reports a line that blocks checkout entirely.
type Conflict struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Reason    string    `json:"reason"`
	Requested int       `json:"requested,omitempty"`
	Available int       `json:"available,omitempty"`
}

// Result carries the WhatsApp handoff produced from a validated cart.
type Result struct {
	Message        string    `json:"message"`
	URL            string    `json:"url"`
	Total          int64     `json:"total"`
	FormattedTotal string    `json:"formatted_total"`
	ItemCount      int       `json:"item_count"`
	Warnings       []Warning `json:"warnings,omitempty"`
}

// Service turns a session's cart into a WhatsApp order link.
type Service interface {
	Checkout(ctx context.Context, sessionID string) (*Result, error)
}

type service struct {
	carts    cartLoader
	products productSource
	builder  *whatsapp.Builder
	fmtr     *currency.Formatter
}

// NewService wires the checkout flow.
func NewService(carts cartLoader, products productSource, builder *whatsapp.Builder, fmtr *currency.Formatter) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if builder == nil {
		return nil, fmt.Errorf("message builder required")
	}
	if fmtr == nil {
		return nil, fmt.Errorf("currency formatter required")
	}
	return &service{carts: carts, products: products, builder: builder, fmtr: fmtr}, nil
}

// Checkout revalidates every cart line against the catalog before
// building the order message. Missing, inactive, or understocked
// products block the order; price drift downgrades to a warning and the
// current price wins. The cart itself is left untouched so the caller
// decides when to clear it.
func (s *service) Checkout(ctx context.Context, sessionID string) (*Result, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}

	store, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := store.Lines()
	items := make([]whatsapp.Item, 0, len(lines))
	var warnings []Warning
	var conflicts []Conflict
	var total int64
	var itemCount int

	for _, line := range lines {
		product, err := s.products.GetProduct(ctx, line.Product.ProductID)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				conflicts = append(conflicts, Conflict{
					ProductID: line.Product.ProductID,
					Name:      line.Product.Name,
					Reason:    "product no longer exists",
				})
				continue
			}
			return nil, err
		}

		if !product.IsActive {
			conflicts = append(conflicts, Conflict{
				ProductID: product.ID,
				Name:      product.Name,
				Reason:    "product is no longer available",
			})
			continue
		}
		if line.Quantity > product.Stock {
			conflicts = append(conflicts, Conflict{
				ProductID: product.ID,
				Name:      product.Name,
				Reason:    "insufficient stock",
				Requested: line.Quantity,
				Available: product.Stock,
			})
			continue
		}

		if product.Price != line.Product.Price {
			warnings = append(warnings, Warning{
				ProductID:     product.ID,
				Name:          product.Name,
				Message:       "price changed since the product was added",
				SnapshotPrice: line.Product.Price,
				CurrentPrice:  product.Price,
			})
		}

		items = append(items, whatsapp.Item{
			Name:     product.Name,
			Quantity: line.Quantity,
			Price:    product.Price,
		})
		total += product.Price * int64(line.Quantity)
		itemCount += line.Quantity
	}

	if len(conflicts) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart has unavailable items").
			WithDetails(map[string]any{"conflicts": conflicts})
	}

	message := s.builder.Message(items, total)
	return &Result{
		Message:        message,
		URL:            s.builder.URL(message),
		Total:          total,
		FormattedTotal: s.fmtr.FormatUnits(total),
		ItemCount:      itemCount,
		Warnings:       warnings,
	}, nil
}
