package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brewhaven-site/internal/auth"
	"brewhaven-site/internal/cart"
	"brewhaven-site/internal/domain"
	"brewhaven-site/internal/identity"

	"github.com/gin-gonic/gin"
)

type stubAuthSvc struct {
	user      *domain.User
	signupErr error
	loginErr  error
	logoutErr error
	meErr     error
}

func (s *stubAuthSvc) Signup(_ context.Context, _ auth.SignupInput) (*domain.User, error) {
	return s.user, s.signupErr
}

func (s *stubAuthSvc) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	return s.user, "access-token", s.loginErr
}

func (s *stubAuthSvc) Logout(_ context.Context, _ string) error {
	return s.logoutErr
}

func (s *stubAuthSvc) UserForToken(_ context.Context, _ string) (*domain.User, error) {
	if s.meErr != nil {
		return nil, s.meErr
	}
	return s.user, nil
}

func (s *stubAuthSvc) AccessTTLSeconds() int {
	return 3600
}

func testAuthRouter(t *testing.T, svc authService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, Deps{
		Carts:    cart.NewProvider(newMemStore(), nil),
		Resolver: identity.NewResolver(nil, nil),
		Auth:     svc,
	}, nil)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestSignupHandlerCreated(t *testing.T) {
	router := testAuthRouter(t, &stubAuthSvc{
		user: &domain.User{ID: "u1", Email: "jane@example.com"},
	})

	body := `{"email":"jane@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestSignupHandlerConflict(t *testing.T) {
	router := testAuthRouter(t, &stubAuthSvc{signupErr: domain.ErrAlreadyExists})

	body := `{"email":"jane@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestLoginHandlerReturnsToken(t *testing.T) {
	router := testAuthRouter(t, &stubAuthSvc{
		user: &domain.User{ID: "u1", Email: "jane@example.com"},
	})

	body := `{"email":"jane@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "access-token") {
		t.Fatalf("expected access token in response: %s", rec.Body.String())
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	router := testAuthRouter(t, &stubAuthSvc{loginErr: auth.ErrInvalidCredentials})

	body := `{"email":"jane@example.com","password":"nope1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestMeHandlerRestoresSession(t *testing.T) {
	router := testAuthRouter(t, &stubAuthSvc{
		user: &domain.User{ID: "u1", Email: "jane@example.com", FirstName: "Jane"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "jane@example.com") {
		t.Fatalf("expected user in response: %s", rec.Body.String())
	}
}

func TestMeHandlerRejectsBadToken(t *testing.T) {
	router := testAuthRouter(t, &stubAuthSvc{meErr: auth.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for stale token, got %d", rec.Code)
	}
}

func TestLogoutHandlerRequiresToken(t *testing.T) {
	router := testAuthRouter(t, &stubAuthSvc{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}
