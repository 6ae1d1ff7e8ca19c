package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type chatActionRequest struct {
	Action    string  `json:"action"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	CreatedBy int64   `json:"created_by"`
	MemberIDs []int64 `json:"member_ids"`
	Query     string  `json:"query"`
}

func (s *Server) handleListChats(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	summaries, err := s.chats.ListChats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleChatAction(c *gin.Context) {
	var req chatActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Action {
	case "create_chat":
		if req.CreatedBy == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "created_by is required"})
			return
		}
		chat, err := s.chats.CreateChat(c.Request.Context(), req.Type, req.CreatedBy, req.MemberIDs, req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"chat_id": chat.ID})
	case "search_users":
		users, err := s.chats.SearchUsers(c.Request.Context(), req.Query)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}
