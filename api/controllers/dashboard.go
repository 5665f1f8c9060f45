package controllers

import (
	"net/http"

	"github.com/casakiran/storefront-backend/api/responses"
	"github.com/casakiran/storefront-backend/internal/catalog"
	"github.com/casakiran/storefront-backend/pkg/logger"
)

func Dashboard(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
