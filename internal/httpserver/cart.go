package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"brewhaven-site/internal/cart"
	"brewhaven-site/internal/domain"
	"brewhaven-site/internal/identity"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "cart_session"
	// the session token survives for a year of inactivity
	sessionCookieMaxAge = 365 * 24 * 60 * 60

	ownerCtxKey = "cartOwner"
)

// ownerMiddleware resolves the owner identity for cart routes and performs
// the one-time durable write of a freshly minted session token.
func ownerMiddleware(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken, _ := c.Cookie(sessionCookie)
		owner, minted, err := resolver.Resolve(c.Request.Context(), bearerToken(c), sessionToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve cart identity"})
			return
		}
		if minted != "" {
			c.SetCookie(sessionCookie, minted, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Set(ownerCtxKey, owner)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func ownerFrom(c *gin.Context) domain.Owner {
	owner, _ := c.Get(ownerCtxKey)
	o, _ := owner.(domain.Owner)
	return o
}

type cartResponse struct {
	Items      []domain.CartLineItem `json:"items"`
	TotalItems int                   `json:"totalItems"`
	TotalPrice float64               `json:"totalPrice"`
	Loading    bool                  `json:"loading"`
}

func cartState(eng *cart.Engine) cartResponse {
	return cartResponse{
		Items:      eng.Items(),
		TotalItems: eng.TotalItems(),
		TotalPrice: eng.TotalPrice(),
		Loading:    eng.Loading(),
	}
}

type addItemRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(carts *cart.Provider, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eng, err := carts.Engine(c.Request.Context(), ownerFrom(c))
		if err != nil {
			respondCartError(c, logger, "load cart items", err)
			return
		}
		c.JSON(http.StatusOK, cartState(eng))
	}
}

func addItemHandler(carts *cart.Provider, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload"})
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item name required"})
			return
		}
		if req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item price must not be negative"})
			return
		}

		eng, err := carts.Engine(c.Request.Context(), ownerFrom(c))
		if err != nil {
			respondCartError(c, logger, "load cart items", err)
			return
		}
		if err := eng.AddItem(c.Request.Context(), domain.ItemInput{
			Name:        req.Name,
			Price:       req.Price,
			Description: req.Description,
			Category:    req.Category,
		}); err != nil {
			respondCartError(c, logger, "add item to cart", err)
			return
		}
		c.JSON(http.StatusOK, cartState(eng))
	}
}

func updateQuantityHandler(carts *cart.Provider, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
			return
		}

		eng, err := carts.Engine(c.Request.Context(), ownerFrom(c))
		if err != nil {
			respondCartError(c, logger, "load cart items", err)
			return
		}
		if err := eng.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
			respondCartError(c, logger, "update item quantity", err)
			return
		}
		c.JSON(http.StatusOK, cartState(eng))
	}
}

func removeItemHandler(carts *cart.Provider, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eng, err := carts.Engine(c.Request.Context(), ownerFrom(c))
		if err != nil {
			respondCartError(c, logger, "load cart items", err)
			return
		}
		if err := eng.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
			respondCartError(c, logger, "remove item from cart", err)
			return
		}
		c.JSON(http.StatusOK, cartState(eng))
	}
}

func clearCartHandler(carts *cart.Provider, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eng, err := carts.Engine(c.Request.Context(), ownerFrom(c))
		if err != nil {
			respondCartError(c, logger, "load cart items", err)
			return
		}
		if err := eng.Clear(c.Request.Context()); err != nil {
			respondCartError(c, logger, "clear cart", err)
			return
		}
		c.JSON(http.StatusOK, cartState(eng))
	}
}

// respondCartError logs the cause and returns a notice naming the attempted
// action. Store errors never reach the client verbatim.
func respondCartError(c *gin.Context, logger *log.Logger, action string, err error) {
	switch {
	case errors.Is(err, cart.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "another cart update is still in progress"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
	case errors.Is(err, cart.ErrProviderClosed):
		logger.Printf("cart access after provider close: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cart is unavailable"})
	default:
		logger.Printf("%s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}
