package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docuchat/ragserver/models"
	"github.com/docuchat/ragserver/session"
)

// AuthController handles login, logout, and the health check.
type AuthController struct {
	username string
	password string
	log      *zap.Logger
}

func NewAuthController(username, password string, log *zap.Logger) *AuthController {
	return &AuthController{username: username, password: password, log: log}
}

// RequireLogin is the guard composed in front of protected routes. It checks
// the session's logged-in flag and rejects with 401 otherwise.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.FromContext(c).LoggedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// Login validates the credential pair against the configured admin account.
// Only an exact match marks the session logged in; any other pair leaves the
// session untouched.
func (a *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.Username != a.username || req.Password != a.password {
		a.log.Warn("login attempt failed", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	st := session.FromContext(c)
	st.SetLoggedIn()
	if err := st.Save(); err != nil {
		a.log.Error("failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}
	a.log.Info("user logged in", zap.String("username", req.Username))
	c.JSON(http.StatusOK, gin.H{"message": "Login successful."})
}

// Logout clears the whole session, chat history included.
func (a *AuthController) Logout(c *gin.Context) {
	st := session.FromContext(c)
	st.Clear()
	if err := st.Save(); err != nil {
		a.log.Error("failed to clear session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	a.log.Info("user logged out")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// Health is the unauthenticated availability check.
func (a *AuthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "RAG chatbot API is running.",
	})
}
