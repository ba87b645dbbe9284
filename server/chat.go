package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/smoothoperator/orchestrator"
)

type chatRequest struct {
	Message  string `json:"message" binding:"required"`
	ThreadID string `json:"thread_id"`
}

// handleChat streams one turn's events over SSE. Events arrive in the exact
// order the orchestrator produced them; connection teardown cancels the turn
// at its next suspension point.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess := currentSession(c)
	s.logger.Info("chat stream starting", "session_id", sess.ID)

	events, err := s.runner.RunTurn(c.Request.Context(), sess.ID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrSessionNotFound),
			errors.Is(err, orchestrator.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			s.logger.Error("turn start failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	for ev := range events {
		frame, err := EncodeSSE(ev)
		if err != nil {
			s.logger.Error("event encoding failed", "error", err.Error())
			continue
		}
		if _, err := c.Writer.Write(frame); err != nil {
			// Client went away; the request context cancels the turn.
			return
		}
		c.Writer.Flush()
	}
}
