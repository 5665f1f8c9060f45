package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/casakiran/storefront-backend/pkg/logger"
)

// CartSession guarantees every request carries a visitor cart session.
// An existing cookie is reused; anything missing or malformed is replaced
// with a freshly minted identifier so carts never collide across visitors.
func CartSession(cartCfg config.CartConfig, appCfg config.AppConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cartCfg.CookieName); err == nil {
				if id, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = id.String()
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cartCfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cartCfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   appCfg.IsProd(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
