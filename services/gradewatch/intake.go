package gradewatch

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Identity string   `json:"identity"`
	Token    string   `json:"token"`
	Cookies  []string `json:"cookies"`
	Platform string   `json:"platform"`
}

type unregisterRequest struct {
	Token string `json:"token"`
}

// RegisterRoutes mounts the intake API. Registration upserts a
// session record, unregistration nulls the delivery token on every
// record carrying it, records themselves are never deleted here.
func (s Service) RegisterRoutes(router gin.IRouter) {
	v1 := router.Group("/v1")
	v1.POST("/register", s.handleRegister)
	v1.POST("/unregister", s.handleUnregister)
}

func (s Service) handleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Identity == "" || req.Token == "" || len(req.Cookies) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing identity, token, or cookies"})
		return
	}

	err = s.store.Upsert(c.Request.Context(), req.Identity, req.Token, req.Cookies, req.Platform)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "upsert session", "identity", req.Identity, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s Service) handleUnregister(c *gin.Context) {
	var req unregisterRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	identities, err := s.store.ClearTokens(c.Request.Context(), req.Token)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "clear tokens", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unregister"})
		return
	}
	slog.InfoContext(c.Request.Context(), "unregistered token", "sessions", len(identities))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
