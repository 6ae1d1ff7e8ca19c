package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type adminActionRequest struct {
	Action    string `json:"action"`
	UserID    int64  `json:"user_id"`
	IPAddress string `json:"ip_address"`
	Reason    string `json:"reason"`
}

func (s *Server) handleAdminQuery(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.Query("action") {
	case "users":
		users, err := s.moderation.ListUsers(ctx, adminID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	case "ip_blocks":
		blocks, err := s.moderation.ListIPBlocks(ctx, adminID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, blocks)
	case "admin_actions":
		limit := 100
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
				return
			}
			limit = parsed
		}
		actions, err := s.moderation.ListAdminActions(ctx, adminID(c), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, actions)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}

func (s *Server) handleAdminAction(c *gin.Context) {
	var req adminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var err error
	var message string
	switch req.Action {
	case "block_user":
		err = s.moderation.BlockUser(ctx, adminID(c), req.UserID, req.Reason)
		message = "User blocked"
	case "unblock_user":
		err = s.moderation.UnblockUser(ctx, adminID(c), req.UserID)
		message = "User unblocked"
	case "block_ip":
		err = s.moderation.BlockIP(ctx, adminID(c), req.IPAddress, req.Reason)
		message = "IP blocked"
	case "unblock_ip":
		err = s.moderation.UnblockIP(ctx, adminID(c), req.IPAddress)
		message = "IP unblocked"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
