package cart

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Snapshot is the product data captured when it enters the cart. It is
// not re-synchronized with the catalog until checkout.
type Snapshot struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	ImageURL  *string   `json:"image_url,omitempty"`
}

// Line pairs one product snapshot with a positive quantity. A cart never
// holds two lines for the same product id.
type Line struct {
	Product  Snapshot `json:"product"`
	Quantity int      `json:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Store holds the ordered line collection and the drawer-visibility flag
// for a single visitor session. Operations never fail; malformed input
// degrades to a no-op. The Store itself is not goroutine-safe; the
// owning Service serializes access per session.
type Store struct {
	lines []Line
	open  bool
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// AddItem merges the snapshot into the cart. An existing line for the
// same product id has its quantity increased; otherwise a new line is
// appended. Quantities below one default to one. A nil product id is
// ignored.
func (s *Store) AddItem(product Snapshot, quantity int) {
	if product.ProductID == uuid.Nil {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	for i := range s.lines {
		if s.lines[i].Product.ProductID == product.ProductID {
			s.lines[i].Quantity += quantity
			return
		}
	}
	s.lines = append(s.lines, Line{Product: product, Quantity: quantity})
}

// RemoveItem drops the line for the product id. Unknown ids are ignored.
func (s *Store) RemoveItem(productID uuid.UUID) {
	for i := range s.lines {
		if s.lines[i].Product.ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces the quantity for the product id. A quantity of
// zero or less removes the line. Unknown ids are ignored.
func (s *Store) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}
	for i := range s.lines {
		if s.lines[i].Product.ProductID == productID {
			s.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.lines = nil
}

// Lines returns a copy of the line collection in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total sums price times quantity across all lines.
func (s *Store) Total() int64 {
	var total int64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount sums quantities across all lines (unit count, not line count).
func (s *Store) ItemCount() int {
	var count int
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	return len(s.lines) == 0
}

// SetOpen toggles the drawer-visibility flag.
func (s *Store) SetOpen(open bool) {
	s.open = open
}

// Open reports the drawer-visibility flag.
func (s *Store) Open() bool {
	return s.open
}

type storeState struct {
	Lines []Line `json:"lines"`
	Open  bool   `json:"open"`
}

// MarshalJSON serializes the cart for persistence.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(storeState{Lines: s.lines, Open: s.open})
}

// UnmarshalJSON restores a persisted cart.
func (s *Store) UnmarshalJSON(data []byte) error {
	var state storeState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	s.lines = state.Lines
	s.open = state.Open
	return nil
}
