package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casakiran/storefront-backend/api/controllers"
	"github.com/casakiran/storefront-backend/api/middleware"
	authsvc "github.com/casakiran/storefront-backend/internal/auth"
	"github.com/casakiran/storefront-backend/internal/cart"
	"github.com/casakiran/storefront-backend/internal/catalog"
	checkoutsvc "github.com/casakiran/storefront-backend/internal/checkout"
	"github.com/casakiran/storefront-backend/internal/media"
	"github.com/casakiran/storefront-backend/pkg/auth/session"
	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/casakiran/storefront-backend/pkg/logger"
	"github.com/casakiran/storefront-backend/pkg/metrics"
	"github.com/casakiran/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	probes map[string]controllers.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	authService authsvc.Service,
	mediaService media.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, probes))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{id}", controllers.GetProduct(catalogService, logg))
		r.Get("/categories", controllers.ListCategories(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Cart, cfg.App, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(cartService, logg))
				r.Delete("/", controllers.ClearCart(cartService, logg))
				r.Post("/items", controllers.AddCartItem(cartService, logg))
				r.Patch("/items/{productId}", controllers.UpdateCartItem(cartService, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(cartService, logg))
				r.Post("/drawer", controllers.SetCartDrawer(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
			r.Post("/refresh", controllers.Refresh(authService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, sessions, logg))
				r.Post("/logout", controllers.Logout(authService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, sessions, logg),
				middleware.RequireAdmin(logg),
			)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(catalogService, logg))
				r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
				r.Put("/{id}", controllers.AdminUpdateProduct(catalogService, logg))
				r.Delete("/{id}", controllers.AdminDeleteProduct(catalogService, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.ListCategories(catalogService, logg))
				r.Post("/", controllers.AdminCreateCategory(catalogService, logg))
				r.Put("/{id}", controllers.AdminUpdateCategory(catalogService, logg))
				r.Delete("/{id}", controllers.AdminDeleteCategory(catalogService, logg))
			})

			r.Get("/dashboard", controllers.Dashboard(catalogService, logg))
			r.Post("/media", controllers.MediaUpload(mediaService, cfg.Media, logg))
		})
	})

	return r
}
