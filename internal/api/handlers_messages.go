package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	ChatID   int64  `json:"chat_id"`
	SenderID int64  `json:"sender_id"`
	Text     string `json:"text"`
}

// handleListMessages serves the polling fetch: messages after the cursor,
// ascending. The caller's read cursor advances as a side effect.
func (s *Server) handleListMessages(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Query("chat_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id is required"})
		return
	}
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	afterSeq := int64(0)
	if raw := c.Query("after_seq"); raw != "" {
		afterSeq, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "after_seq must be an integer"})
			return
		}
	}

	messages, err := s.chats.ListSince(c.Request.Context(), chatID, userID, afterSeq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ChatID == 0 || req.SenderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id, sender_id and text are required"})
		return
	}

	msg, err := s.chats.Append(c.Request.Context(), req.ChatID, req.SenderID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
