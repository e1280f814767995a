package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"atelier-system/internal/database/models"
	"atelier-system/internal/utils"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *utils.TokenManager
}

func NewAuthHandler(db *gorm.DB, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens}
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	ProfileType string `json:"profile_type" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	if !models.ValidProfileType(req.ProfileType) {
		c.JSON(http.StatusBadRequest, errorResponse("profile_type must be OPERACIONAL or GERENCIAL"))
		return
	}

	var existing models.User
	err := h.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, errorResponse("Email already registered"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to hash password"))
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(pwHash),
		ProfileType:  models.ProfileType(req.ProfileType),
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, errorResponse("Email already registered"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create user"))
		return
	}

	zlog.Info().Str("email", user.Email).Msg("user registered")
	c.JSON(http.StatusCreated, successResponse("User registered successfully", user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		zlog.Warn().Str("email", req.Email).Msg("login failed")
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		zlog.Warn().Str("email", req.Email).Msg("login failed")
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid email or password"))
		return
	}

	token, _, err := h.tokens.GenerateToken(user.ID, user.Email, string(user.ProfileType))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error generating token"))
		return
	}

	zlog.Info().Str("email", user.Email).Msg("user logged in")
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// Profile returns the authenticated user's safe fields, looked up fresh so a
// deleted account stops resolving even with a live token.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := c.GetInt64("userID")

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse("User not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Profile retrieved successfully", user))
}
