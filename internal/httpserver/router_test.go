package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brewhaven-site/internal/cart"
	"brewhaven-site/internal/domain"
	"brewhaven-site/internal/identity"

	"github.com/gin-gonic/gin"
)

type stubMenuRepo struct {
	items []domain.MenuItem
	err   error
}

func (s *stubMenuRepo) List(_ context.Context) ([]domain.MenuItem, error) {
	return s.items, s.err
}

func TestHealthz(t *testing.T) {
	router := testCartRouter(t, newMemStore())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	router := testCartRouter(t, newMemStore())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestBuildRouterRequiresDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logDiscard(), nil, Deps{}, nil); err == nil {
		t.Fatalf("expected error for missing cart provider")
	}
	if _, err := buildRouter(logDiscard(), nil, Deps{Carts: cart.NewProvider(newMemStore(), nil)}, nil); err == nil {
		t.Fatalf("expected error for missing resolver")
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := testCartRouter(t, newMemStore())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected caller-supplied request id, got %q", got)
	}
}

func TestMenuHandlerGroupsByCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	menu := &stubMenuRepo{items: []domain.MenuItem{
		{ID: "m1", Name: "Classic Espresso", Price: 3.50, Category: "Hot Drinks", Position: 1},
		{ID: "m2", Name: "Cappuccino", Price: 4.75, Category: "Hot Drinks", Position: 2},
		{ID: "m3", Name: "Iced Coffee", Price: 3.75, Category: "Cold Drinks", Position: 7},
	}}
	router, err := buildRouter(logDiscard(), nil, Deps{
		Carts:    cart.NewProvider(newMemStore(), nil),
		Resolver: identity.NewResolver(nil, nil),
		Menu:     menu,
	}, nil)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Categories []menuCategoryResponse `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %+v", resp.Categories)
	}
	if resp.Categories[0].Title != "Hot Drinks" || len(resp.Categories[0].Items) != 2 {
		t.Fatalf("unexpected first category %+v", resp.Categories[0])
	}
}
