package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/casakiran/storefront-backend/pkg/currency"
	"github.com/casakiran/storefront-backend/pkg/db/models"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

type productLoader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes per-session cart operations. All mutations follow the
// same degrade-to-no-op contract as the underlying Store.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, sessionID string) (*View, error)
	SetOpen(ctx context.Context, sessionID string, open bool) (*View, error)
}

type service struct {
	repo     Repository
	products productLoader
	fmtr     *currency.Formatter

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService builds a cart service backed by the provided repository and
// catalog loader.
func NewService(repo Repository, products productLoader, fmtr *currency.Formatter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if fmtr == nil {
		return nil, fmt.Errorf("currency formatter required")
	}
	return &service{
		repo:     repo,
		products: products,
		fmtr:     fmtr,
		locks:    map[string]*sync.Mutex{},
	}, nil
}

// sessionLock returns the mutex guarding one session's cart. Locks are
// never reclaimed; session cardinality is bounded by cookie issuance.
func (s *service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	store, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.render(store), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		if input.ProductID == uuid.Nil {
			return nil
		}
		product, err := s.products.GetProduct(ctx, input.ProductID)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				return nil
			}
			return err
		}
		store.AddItem(snapshotOf(product), input.Quantity)
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		store.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		store.RemoveItem(productID)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		store.Clear()
		return nil
	})
}

func (s *service) SetOpen(ctx context.Context, sessionID string, open bool) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		store.SetOpen(open)
		return nil
	})
}

func (s *service) mutate(ctx context.Context, sessionID string, fn func(store *Store) error) (*View, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	store, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(store); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sessionID, store); err != nil {
		return nil, err
	}
	return s.render(store), nil
}

func (s *service) render(store *Store) *View {
	lines := store.Lines()
	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, LineView{
			ProductID:         l.Product.ProductID,
			Name:              l.Product.Name,
			Price:             l.Product.Price,
			FormattedPrice:    s.fmtr.FormatUnits(l.Product.Price),
			ImageURL:          l.Product.ImageURL,
			Quantity:          l.Quantity,
			Subtotal:          l.Subtotal(),
			FormattedSubtotal: s.fmtr.FormatUnits(l.Subtotal()),
		})
	}
	total := store.Total()
	return &View{
		Lines:          views,
		Total:          total,
		FormattedTotal: s.fmtr.FormatUnits(total),
		ItemCount:      store.ItemCount(),
		Open:           store.Open(),
	}
}

func snapshotOf(product *models.Product) Snapshot {
	return Snapshot{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
	}
}
