package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"brewhaven-site/internal/auth"
	"brewhaven-site/internal/cart"
	"brewhaven-site/internal/domain"
	"brewhaven-site/internal/identity"
	menurepo "brewhaven-site/internal/repository/menu"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// authService is the slice of the auth service the handlers consume.
type authService interface {
	Signup(ctx context.Context, in auth.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	UserForToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

// Deps carries the collaborators the routes need.
type Deps struct {
	Carts    *cart.Provider
	Menu     menurepo.Repository
	Auth     authService
	Resolver *identity.Resolver
}

// buildRouter wires routes for the site API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.Carts == nil {
		return nil, errors.New("cart provider required")
	}
	if deps.Resolver == nil {
		return nil, errors.New("identity resolver required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(requestIDMiddleware())
	if len(corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	api.GET("/menu", menuHandler(deps.Menu, logger))

	if deps.Auth != nil {
		authGroup := api.Group("/auth")
		authGroup.POST("/signup", signupHandler(deps.Auth, logger))
		authGroup.POST("/login", loginHandler(deps.Auth, logger))
		authGroup.POST("/logout", logoutHandler(deps.Auth))
		authGroup.GET("/me", meHandler(deps.Auth, logger))
	}

	cartGroup := api.Group("/cart")
	cartGroup.Use(ownerMiddleware(deps.Resolver))
	cartGroup.GET("", getCartHandler(deps.Carts, logger))
	cartGroup.DELETE("", clearCartHandler(deps.Carts, logger))
	cartGroup.POST("/items", addItemHandler(deps.Carts, logger))
	cartGroup.PATCH("/items/:id", updateQuantityHandler(deps.Carts, logger))
	cartGroup.DELETE("/items/:id", removeItemHandler(deps.Carts, logger))

	return router, nil
}

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
