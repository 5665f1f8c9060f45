package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the canonical catalog listing. Price is stored in whole currency
// units (CLP has no minor unit); the cart copies a snapshot of these fields and
// never re-reads them until checkout.
type Product struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Description string     `gorm:"column:description;not null;default:''"`
	Price       int64      `gorm:"column:price;not null"`
	ImageURL    *string    `gorm:"column:image_url"`
	CategoryID  *uuid.UUID `gorm:"column:category_id;type:uuid"`
	Category    *Category  `gorm:"foreignKey:CategoryID"`
	Stock       int        `gorm:"column:stock;not null;default:0"`
	IsFeatured  bool       `gorm:"column:is_featured;not null;default:false"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
