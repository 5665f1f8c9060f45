package controllers

import (
	"net/http"

	"github.com/casakiran/storefront-backend/api/middleware"
	"github.com/casakiran/storefront-backend/api/responses"
	"github.com/casakiran/storefront-backend/internal/checkout"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/casakiran/storefront-backend/pkg/logger"
)

// Checkout revalidates the visitor's cart and returns the WhatsApp handoff.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		result, err := svc.Checkout(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
