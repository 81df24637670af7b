package handlers

import (
	"net/http"

	"synapse-go/internal/repository"
	"synapse-go/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	log *zap.Logger
}

func NewAuthHandler(log *zap.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters with upper, lower, digit and symbol"})
		return
	}

	user, err := repository.CreateUser(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.log.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "could not register with that email"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := repository.GetUserByEmail(c, req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("userID", user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the logged-in account with its child profiles.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	user, err := repository.GetUserByID(c, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	children, err := repository.GetChildProfiles(c, userID)
	if err != nil {
		h.log.Error("Failed to list child profiles", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profiles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"children":  children,
	})
}

type createChildRequest struct {
	Name     string `json:"name" binding:"required"`
	AgeYears int    `json:"ageYears" binding:"required"`
	Avatar   string `json:"avatar"`
}

func (h *AuthHandler) CreateChild(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req createChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and ageYears are required"})
		return
	}
	if req.AgeYears < 2 || req.AgeYears > 17 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ageYears must be between 2 and 17"})
		return
	}

	child, err := repository.CreateChildProfile(c, userID, req.Name, req.AgeYears, req.Avatar)
	if err != nil {
		h.log.Error("Failed to create child profile", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}
	c.JSON(http.StatusCreated, child)
}
