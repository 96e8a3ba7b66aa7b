package httpserver

import (
	"errors"
	"log"
	"net/http"

	"brewhaven-site/internal/auth"
	"brewhaven-site/internal/domain"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FirstName: u.FirstName}
}

func signupHandler(svc authService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signup payload"})
			return
		}
		u, err := svc.Signup(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
				return
			}
			logger.Printf("signup: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(u)})
	}
}

func loginHandler(svc authService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		u, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			logger.Printf("login: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":        toUserResponse(u),
			"accessToken": token,
			"expiresIn":   svc.AccessTTLSeconds(),
		})
	}
}

// meHandler restores the signed-in account from a stored access token.
func meHandler(svc authService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}
		u, err := svc.UserForToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
				return
			}
			logger.Printf("restore session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restore session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
	}
}

func logoutHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}
		if err := svc.Logout(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
