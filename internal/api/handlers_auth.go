package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type authRequest struct {
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	DisplayName string `json:"display_name"`
}

// handleAuth is register-or-login: 201 for a fresh registration, 200 for a
// returning user, 403 with the reason for a blocked account.
func (s *Server) handleAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, created, err := s.auth.Login(c.Request.Context(), req.Username, req.Phone, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"user_id":      user.ID,
		"username":     user.Username,
		"phone":        user.Phone,
		"display_name": user.DisplayName,
		"bio":          user.Bio,
		"avatar_url":   user.AvatarURL,
		"is_admin":     user.IsAdmin,
		"token":        token,
	})
}
