package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type supportActionRequest struct {
	Action       string `json:"action"`
	UserID       int64  `json:"user_id"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	TicketID     int64  `json:"ticket_id"`
	SenderID     int64  `json:"sender_id"`
	IsAdminReply bool   `json:"is_admin_reply"`
}

func (s *Server) handleSupportQuery(c *gin.Context) {
	switch c.Query("action") {
	case "tickets":
		userID := int64(0)
		if raw := c.Query("user_id"); raw != "" {
			var err error
			userID, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
				return
			}
		}
		tickets, err := s.support.ListTickets(c.Request.Context(), userID, c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	case "messages":
		ticketID, err := strconv.ParseInt(c.Query("ticket_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ticket_id is required"})
			return
		}
		messages, err := s.support.ListMessages(c.Request.Context(), ticketID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, messages)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}

func (s *Server) handleSupportAction(c *gin.Context) {
	var req supportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Action {
	case "create_ticket":
		ticket, err := s.support.CreateTicket(c.Request.Context(), req.UserID, req.Subject, req.Message)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ticket_id": ticket.ID, "created_at": ticket.CreatedAt})
	case "send_message":
		msg, err := s.support.SendMessage(c.Request.Context(), req.TicketID, req.SenderID, req.Message, req.IsAdminReply)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message_id": msg.ID, "created_at": msg.CreatedAt})
	case "close_ticket":
		raw := c.GetHeader("X-Admin-Id")
		closerID, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin authentication required"})
			return
		}
		if err := s.support.CloseTicket(c.Request.Context(), closerID, req.TicketID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}
