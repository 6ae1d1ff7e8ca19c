package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/chatsyncd/internal/auth"
	"github.com/iamwavecut/chatsyncd/internal/chat"
	"github.com/iamwavecut/chatsyncd/internal/moderation"
	"github.com/iamwavecut/chatsyncd/internal/observability"
	"github.com/iamwavecut/chatsyncd/internal/support"
)

// Server is the JSON HTTP surface the polling clients talk to. It is a
// lifecycle component: Start binds the listener, Stop drains it.
type Server struct {
	addr       string
	auth       *auth.Service
	chats      *chat.Service
	moderation *moderation.Service
	support    *support.Service

	httpServer *http.Server
}

func NewServer(addr string, authSvc *auth.Service, chatSvc *chat.Service, modSvc *moderation.Service, supportSvc *support.Service) *Server {
	return &Server{
		addr:       addr,
		auth:       authSvc,
		chats:      chatSvc,
		moderation: modSvc,
		support:    supportSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth", s.handleAuth)

		api.GET("/chats", s.handleListChats)
		api.POST("/chats", s.handleChatAction)

		api.GET("/messages", s.handleListMessages)
		api.POST("/messages", s.handleSendMessage)

		api.GET("/support", s.handleSupportQuery)
		api.POST("/support", s.handleSupportAction)

		admin := api.Group("/admin", s.requireAdmin())
		admin.GET("", s.handleAdminQuery)
		admin.POST("", s.handleAdminAction)
	}
	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", s.addr).Info("api server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("api server failed")
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observability.ObserveRequest(
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}

// requireAdmin authorizes via the X-Admin-Id identity header: missing header
// is 401, a non-admin identity is 403.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Admin-Id")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authentication required"})
			return
		}
		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authentication required"})
			return
		}
		isAdmin, err := s.moderation.IsAdmin(c.Request.Context(), adminID)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Set("admin_id", adminID)
		c.Next()
	}
}

func adminID(c *gin.Context) int64 {
	return c.GetInt64("admin_id")
}
