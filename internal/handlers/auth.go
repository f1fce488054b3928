package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/internal/config"
	"github.com/stagegear/inventory/internal/middleware"
	"github.com/stagegear/inventory/internal/services"
	"github.com/stagegear/inventory/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
	cookie      config.SessionConfig
}

func NewAuthHandler(authService *services.AuthService, cfg *config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      *cfg,
	}
}

// Login handles user login and sets the session cookie
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, result.Token, h.cookie.ExpireHour*3600)
	response.Success(c, result.User)
}

// Logout revokes the session and clears the cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, "", -1)
	response.Success(c, gin.H{"message": "Logged out"})
}

// Me returns the current user, or 401 with a null body when anonymous
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(middleware.GetIdentity(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, nil)
		return
	}
	response.Success(c, user)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.Secure, true)
}
