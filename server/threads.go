package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleCreateThread allocates a new conversation thread for the session.
func (s *Server) handleCreateThread(c *gin.Context) {
	sess := currentSession(c)
	thread := s.sessions.CreateThread(sess.ID)
	s.logger.Info("thread created", "thread_id", thread.ID, "session_id", sess.ID)
	c.JSON(http.StatusOK, gin.H{
		"thread_id":  thread.ID,
		"session_id": sess.ID,
		"message":    "Thread created successfully",
	})
}

// handleGetThread returns thread metadata, verifying ownership.
func (s *Server) handleGetThread(c *gin.Context) {
	sess := currentSession(c)
	thread, ok := s.sessions.GetThread(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found or expired"})
		return
	}
	if thread.SessionID != sess.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "thread does not belong to this session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"thread_id":     thread.ID,
		"session_id":    thread.SessionID,
		"message_count": len(thread.Messages),
		"messages":      thread.Messages,
		"created_at":    thread.Created,
		"last_accessed": thread.LastAccessed,
	})
}
