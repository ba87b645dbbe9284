package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

type setKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

type authResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// handleLogin verifies the passcode and creates a session, setting an
// HttpOnly session cookie on success.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Passcode), []byte(s.cfg.Passcode)) != 1 {
		s.logger.Warn("failed login attempt with incorrect passcode")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid passcode"})
		return
	}

	sess := s.sessions.Create()
	s.sessions.MarkPasscodeVerified(sess.ID)

	// SameSite none with secure so API and web can live on different domains.
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookie, sess.ID, int(s.cfg.SessionTTL.Seconds()), "/", "", true, true)

	s.logger.Info("user logged in", "session_id", sess.ID)
	c.JSON(http.StatusOK, authResponse{Success: true, Message: "Login successful", SessionID: sess.ID})
}

// handleSetKey stores the user's provider API key in the session. The key
// lives in memory only and is never persisted.
func (s *Server) handleSetKey(c *gin.Context) {
	var req setKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess := currentSession(c)
	if sess == nil || !sess.PasscodeVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please login with passcode first"})
		return
	}
	s.sessions.SetAPIKey(sess.ID, req.APIKey)
	s.logger.Info("api key set", "session_id", sess.ID)
	c.JSON(http.StatusOK, authResponse{Success: true, Message: "API key set successfully", SessionID: sess.ID})
}

// handleLogout destroys the session and clears the cookie.
func (s *Server) handleLogout(c *gin.Context) {
	if id := sessionID(c); id != "" {
		s.sessions.Delete(id)
		s.logger.Info("user logged out", "session_id", id)
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// handleSessionStatus reports the authentication state of the session.
func (s *Server) handleSessionStatus(c *gin.Context) {
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"passcode_verified":   sess.PasscodeVerified,
		"api_key_set":         sess.APIKey != "",
		"fully_authenticated": sess.Authenticated(),
		"session_id":          sess.ID,
	})
}
