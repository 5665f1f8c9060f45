package cart

import (
	"github.com/google/uuid"
)

// LineView is the rendered form of a cart line.
type LineView struct {
	ProductID         uuid.UUID `json:"product_id"`
	Name              string    `json:"name"`
	Price             int64     `json:"price"`
	FormattedPrice    string    `json:"formatted_price"`
	ImageURL          *string   `json:"image_url,omitempty"`
	Quantity          int       `json:"quantity"`
	Subtotal          int64     `json:"subtotal"`
	FormattedSubtotal string    `json:"formatted_subtotal"`
}

// View is the full cart presentation returned to callers.
type View struct {
	Lines          []LineView `json:"lines"`
	Total          int64      `json:"total"`
	FormattedTotal string     `json:"formatted_total"`
	ItemCount      int        `json:"item_count"`
	Open           bool       `json:"open"`
}

// AddItemInput captures an add-to-cart request.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateQuantityInput captures a set-quantity request.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

// DrawerInput captures a drawer-visibility change.
type DrawerInput struct {
	Open bool `json:"open"`
}
