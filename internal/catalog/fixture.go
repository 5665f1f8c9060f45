package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/casakiran/storefront-backend/pkg/db/models"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// fixtureRepository is the in-memory catalog used when no database is
// configured. It honors the same contract as the GORM repository.
type fixtureRepository struct {
	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
}

// NewFixtureRepository returns an in-memory repository seeded with a
// small demo catalog so the storefront can run without a database.
func NewFixtureRepository() Repository {
	repo := &fixtureRepository{}
	repo.seed()
	return repo
}

func (r *fixtureRepository) seed() {
	now := time.Now().UTC()
	velas := models.Category{ID: uuid.New(), Name: "Velas Aromáticas", Slug: "velas-aromaticas", CreatedAt: now}
	difusores := models.Category{ID: uuid.New(), Name: "Difusores", Slug: "difusores", CreatedAt: now}
	r.categories = []models.Category{velas, difusores}

	demo := []struct {
		name     string
		desc     string
		price    int64
		category uuid.UUID
		stock    int
		featured bool
	}{
		{"Vela Lavanda", "Vela artesanal de soya con aceite esencial de lavanda.", 12500, velas.ID, 12, true},
		{"Vela Vainilla", "Vela de soya con aroma cálido de vainilla.", 11000, velas.ID, 8, false},
		{"Vela Canela Naranja", "Mezcla especiada de canela y naranja.", 13500, velas.ID, 5, true},
		{"Difusor Bambú", "Difusor de varillas con esencia de bambú.", 18900, difusores.ID, 6, false},
	}

	for _, d := range demo {
		categoryID := d.category
		r.products = append(r.products, models.Product{
			ID:          uuid.New(),
			Name:        d.name,
			Description: d.desc,
			Price:       d.price,
			CategoryID:  &categoryID,
			Stock:       d.stock,
			IsFeatured:  d.featured,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
}

func (r *fixtureRepository) categoryByID(id uuid.UUID) *models.Category {
	for i := range r.categories {
		if r.categories[i].ID == id {
			c := r.categories[i]
			return &c
		}
	}
	return nil
}

func (r *fixtureRepository) withCategory(p models.Product) models.Product {
	if p.CategoryID != nil {
		p.Category = r.categoryByID(*p.CategoryID)
	}
	return p
}

func (r *fixtureRepository) ListProducts(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, r.withCategory(p))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fixtureRepository) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			product := r.withCategory(p)
			return &product, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (r *fixtureRepository) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products = append(r.products, *product)
	return product, nil
}

func (r *fixtureRepository) UpdateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == product.ID {
			product.UpdatedAt = time.Now().UTC()
			r.products[i] = *product
			return product, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (r *fixtureRepository) DeleteProduct(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (r *fixtureRepository) ListCategories(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *fixtureRepository) GetCategory(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c := r.categoryByID(id); c != nil {
		return c, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
}

func (r *fixtureRepository) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.categories {
		if r.categories[i].Slug == slug {
			c := r.categories[i]
			return &c, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
}

func (r *fixtureRepository) CreateCategory(_ context.Context, category *models.Category) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].Slug == category.Slug {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	r.categories = append(r.categories, *category)
	return category, nil
}

func (r *fixtureRepository) UpdateCategory(_ context.Context, category *models.Category) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].Slug == category.Slug && r.categories[i].ID != category.ID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
	}
	for i := range r.categories {
		if r.categories[i].ID == category.ID {
			r.categories[i] = *category
			return category, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
}

func (r *fixtureRepository) DeleteCategory(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
}

func (r *fixtureRepository) CountProductsInCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, p := range r.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *fixtureRepository) Counts(_ context.Context) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &Stats{
		Products:   int64(len(r.products)),
		Categories: int64(len(r.categories)),
	}
	for _, p := range r.products {
		if p.IsActive {
			stats.ActiveProducts++
		}
		if p.IsFeatured {
			stats.FeaturedProducts++
		}
	}
	return stats, nil
}
