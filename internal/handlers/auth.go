package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ravitejak99/storefront-go/internal/auth"
	"github.com/ravitejak99/storefront-go/internal/db"
	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/ravitejak99/storefront-go/internal/orders"
)

type AuthHandler struct {
	users  *db.UserRepository
	tokens *auth.TokenManager
}

func NewAuthHandler(users *db.UserRepository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register creates a regular user account
func (h *AuthHandler) Register(c *gin.Context) {
	h.register(c, models.RoleUser)
}

// RegisterAdmin creates an admin account
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	h.register(c, models.RoleAdmin)
}

func (h *AuthHandler) register(c *gin.Context, role models.Role) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !auth.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.users.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "user_id": user.ID})
}

// Login verifies credentials and returns a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, orders.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		writeError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := h.users.RecordLogin(c.Request.Context(), user.ID, time.Now()); err != nil {
		writeError(c, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"role":    user.Role,
		"user_id": user.ID,
	})
}
