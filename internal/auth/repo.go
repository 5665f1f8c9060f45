package auth

import (
	"context"
	"strings"
	"time"

	"github.com/casakiran/storefront-backend/pkg/db"
	"github.com/casakiran/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUserRepository exposes the persistence needed by login and bootstrap.
type AdminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	CreateIfFirst(ctx context.Context, user *models.AdminUser) (bool, error)
}

type adminUserRepo struct {
	client *db.Client
}

// NewAdminUserRepository builds the GORM-backed admin user repository.
func NewAdminUserRepository(client *db.Client) AdminUserRepository {
	return &adminUserRepo{client: client}
}

func (r *adminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.client.DB().WithContext(ctx).
		First(&user, "LOWER(email) = ?", strings.ToLower(email)).
		Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	return r.client.DB().WithContext(ctx).Create(user).Error
}

func (r *adminUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.client.DB().WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_login_at": at, "updated_at": at}).
		Error
}

// CreateIfFirst inserts the user only when no admin exists yet. The count
// and the insert run in one transaction so two boots cannot both seed.
func (r *adminUserRepo) CreateIfFirst(ctx context.Context, user *models.AdminUser) (bool, error) {
	var created bool
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
