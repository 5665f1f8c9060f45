package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/casakiran/storefront-backend/api/controllers"
	authsvc "github.com/casakiran/storefront-backend/internal/auth"
	"github.com/casakiran/storefront-backend/internal/cart"
	"github.com/casakiran/storefront-backend/internal/catalog"
	checkoutsvc "github.com/casakiran/storefront-backend/internal/checkout"
	"github.com/casakiran/storefront-backend/internal/media"
	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/casakiran/storefront-backend/pkg/currency"
	"github.com/casakiran/storefront-backend/pkg/whatsapp"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(context.Context, authsvc.RefreshRequest) (*authsvc.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(context.Context, string) error {
	return nil
}

type stubMediaService struct{}

func (stubMediaService) UploadProductImage(context.Context, media.UploadInput) (*media.UploadOutput, error) {
	return &media.UploadOutput{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080"},
		Site: config.SiteConfig{
			Name:           "Casa Kiran",
			WhatsAppPhone:  "+56 9 1234 5678",
			CurrencyCode:   "CLP",
			CurrencySymbol: "$",
			Locale:         "es-CL",
		},
		JWT: config.JWTConfig{Secret: "test", Issuer: "test", ExpirationMinutes: 15},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginEmailLimit: 5,
			LoginIPLimit:    20,
		},
		Cart: config.CartConfig{CookieName: "ck_cart_session", TTL: time.Hour},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := testConfig()
	fmtr := currency.NewFormatter(cfg.Site)

	catalogService, err := catalog.NewService(catalog.NewFixtureRepository(), fmtr)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}

	cartRepo := cart.NewMemoryRepository()
	cartService, err := cart.NewService(cartRepo, catalogService, fmtr)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}

	builder, err := whatsapp.NewBuilder(cfg.Site, fmtr)
	if err != nil {
		t.Fatalf("whatsapp builder: %v", err)
	}
	checkoutService, err := checkoutsvc.NewService(cartRepo, catalogService, builder, fmtr)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	return NewRouter(
		cfg,
		nil,
		map[string]controllers.Pinger{"db": stubPinger{}},
		nil,
		stubSessionChecker{},
		nil,
		nil,
		catalogService,
		cartService,
		checkoutService,
		stubAuthService{},
		stubMediaService{},
	)
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthEndpoints(t *testing.T) {
	handler := newTestRouter(t)

	if rec := doRequest(t, handler, http.MethodGet, "/health/live", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}
	if rec := doRequest(t, handler, http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d", rec.Code)
	}
}

func TestRouterPublicCatalog(t *testing.T) {
	handler := newTestRouter(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data []catalog.ProductDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(payload.Data) == 0 {
		t.Fatal("expected seeded products")
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/categories", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("categories: expected 200 got %d", rec.Code)
	}
}

func TestRouterCartAndCheckoutFlow(t *testing.T) {
	handler := newTestRouter(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/products", "", nil)
	var listed struct {
		Data []catalog.ProductDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(listed.Data) == 0 {
		t.Fatal("expected seeded products")
	}
	productID := listed.Data[0].ID

	rec = doRequest(t, handler, http.MethodPost, "/api/v1/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":2}`, productID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a cart session cookie")
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/cart", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("get cart: expected 200 got %d", rec.Code)
	}
	var cartPayload struct {
		Data cart.View `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cartPayload); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if cartPayload.Data.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", cartPayload.Data.ItemCount)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/v1/checkout", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var checkoutPayload struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &checkoutPayload); err != nil {
		t.Fatalf("decode checkout: %v", err)
	}
	if !strings.Contains(checkoutPayload.Data.URL, "wa.me") {
		t.Fatalf("expected wa.me link, got %q", checkoutPayload.Data.URL)
	}
}

func TestRouterAdminRoutesRequireAuth(t *testing.T) {
	handler := newTestRouter(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/admin/v1/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/admin/v1/dashboard", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
