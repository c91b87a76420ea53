package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/utils"
)

// AuthHandler exposes token inspection endpoints. Token issuance belongs to
// the identity provider; the dev-token route is only mounted outside release
// mode.
type AuthHandler struct {
	Verifier *utils.JWTVerifier
}

func NewAuthHandler(verifier *utils.JWTVerifier) *AuthHandler {
	return &AuthHandler{Verifier: verifier}
}

// Verify runs behind the auth middleware and echoes the authenticated
// identity, letting clients validate a stored token.
func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"user_id": c.GetString(middleware.ContextUserID),
		"email":   c.GetString(middleware.ContextEmail),
		"name":    c.GetString(middleware.ContextName),
	})
}

type DevTokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// DevToken issues a short-lived token for local development.
func (h *AuthHandler) DevToken(c *gin.Context) {
	var req DevTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Verifier.Generate(utils.Identity{
		UserID: req.UserID,
		Email:  req.Email,
		Name:   req.Name,
	}, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
