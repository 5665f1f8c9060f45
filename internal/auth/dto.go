package auth

import (
	"time"

	"github.com/casakiran/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// LoginRequest captures the credentials sent to the admin login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token plus the refresh token
// issued alongside it.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AdminUserDTO is the admin identity returned after login.
type AdminUserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse contains the token pair and the authenticated admin.
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *AdminUserDTO `json:"user"`
}

func adminUserDTO(user *models.AdminUser) *AdminUserDTO {
	if user == nil {
		return nil
	}
	return &AdminUserDTO{
		ID:          user.ID,
		Email:       user.Email,
		LastLoginAt: user.LastLoginAt,
	}
}
