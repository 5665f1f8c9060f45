package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/casakiran/storefront-backend/pkg/currency"
	"github.com/casakiran/storefront-backend/pkg/db/models"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/casakiran/storefront-backend/pkg/slug"
	"github.com/google/uuid"
)

// Service exposes the public catalog reads plus the admin CRUD surface.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductView(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	AdminListProducts(ctx context.Context) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	DashboardStats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo Repository
	fmtr *currency.Formatter
}

// NewService builds a catalog service on top of the configured repository.
func NewService(repo Repository, fmtr *currency.Formatter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if fmtr == nil {
		return nil, fmt.Errorf("currency formatter required")
	}
	return &service{repo: repo, fmtr: fmtr}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error) {
	filter := ProductFilter{
		FeaturedOnly: input.FeaturedOnly,
		ActiveOnly:   true,
		Limit:        input.Limit,
	}
	if input.CategorySlug != nil {
		category, err := s.repo.GetCategoryBySlug(ctx, *input.CategorySlug)
		if err != nil {
			// An unknown slug is not an error for the public listing.
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				return []ProductDTO{}, nil
			}
			return nil, err
		}
		filter.CategoryID = &category.ID
	}
	rows, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.productDTOs(rows), nil
}

// GetProduct returns an active product. Inactive products are hidden
// from the public surface and from add-to-cart.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) GetProductView(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := s.productDTO(product)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *categoryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) AdminListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx, ProductFilter{})
	if err != nil {
		return nil, err
	}
	return s.productDTOs(rows), nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		Stock:       input.Stock,
		IsFeatured:  input.IsFeatured,
		IsActive:    active,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	dto := s.productDTO(created)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.CategoryID = input.CategoryID
	product.Category = nil
	product.Stock = input.Stock
	product.IsFeatured = input.IsFeatured
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	dto := s.productDTO(updated)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name yields an empty slug")
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        categorySlug,
		Description: input.Description,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return categoryDTO(created), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name yields an empty slug")
	}

	category.Name = name
	category.Slug = categorySlug
	category.Description = input.Description

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return categoryDTO(updated), nil
}

// DeleteCategory refuses to remove a category that still has products.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category still has products").
			WithDetails(map[string]any{"product_count": count})
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *service) DashboardStats(ctx context.Context) (*Stats, error) {
	return s.repo.Counts(ctx)
}

func (s *service) ensureCategoryExists(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.repo.GetCategory(ctx, *categoryID); err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return err
	}
	return nil
}

func (s *service) productDTO(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		FormattedPrice: s.fmtr.FormatUnits(product.Price),
		ImageURL:       product.ImageURL,
		CategoryID:     product.CategoryID,
		Category:       categoryDTO(product.Category),
		Stock:          product.Stock,
		IsFeatured:     product.IsFeatured,
		IsActive:       product.IsActive,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

func (s *service) productDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, s.productDTO(&rows[i]))
	}
	return out
}
