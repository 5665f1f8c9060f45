package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/casakiran/storefront-backend/pkg/db/models"
	"github.com/casakiran/storefront-backend/pkg/logger"
	"github.com/casakiran/storefront-backend/pkg/security"
	"github.com/google/uuid"
)

// EnsureAdmin creates the bootstrap admin account when no admin exists
// yet. It is a no-op when bootstrap credentials are not configured or an
// admin is already present.
func EnsureAdmin(ctx context.Context, repo AdminUserRepository, adminCfg config.AdminConfig, pwCfg config.PasswordConfig, logg *logger.Logger) error {
	email := strings.ToLower(strings.TrimSpace(adminCfg.BootstrapEmail))
	if email == "" || adminCfg.BootstrapPassword == "" {
		return nil
	}

	hash, err := security.HashPassword(adminCfg.BootstrapPassword, pwCfg)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	user := &models.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	created, err := repo.CreateIfFirst(ctx, user)
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	if created && logg != nil {
		logg.Info(logg.WithField(ctx, "email", email), "bootstrap admin account created")
	}
	return nil
}
