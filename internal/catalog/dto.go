package catalog

import (
	"time"

	"github.com/casakiran/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CategoryDTO is the category shape returned over the API.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDTO is the product shape returned over the API.
type ProductDTO struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Price          int64        `json:"price"`
	FormattedPrice string       `json:"formatted_price"`
	ImageURL       *string      `json:"image_url,omitempty"`
	CategoryID     *uuid.UUID   `json:"category_id,omitempty"`
	Category       *CategoryDTO `json:"category,omitempty"`
	Stock          int          `json:"stock"`
	IsFeatured     bool         `json:"is_featured"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ListProductsInput narrows the public product listing.
type ListProductsInput struct {
	CategorySlug *string
	FeaturedOnly bool
	Limit        int
}

// ProductInput is the payload for product create and full update.
type ProductInput struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Price       int64      `json:"price" validate:"gte=0"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Stock       int        `json:"stock" validate:"gte=0"`
	IsFeatured  bool       `json:"is_featured"`
	IsActive    *bool      `json:"is_active"`
}

// CategoryInput is the payload for category create and update. The slug
// is always derived from the name.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func categoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}
