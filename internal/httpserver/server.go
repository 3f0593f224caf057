package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marqueelabs/marquee/internal/ingest"
	"github.com/marqueelabs/marquee/internal/model"
	"github.com/marqueelabs/marquee/internal/store"
)

// Server provides the HTTP API the landing page and demo app talk to:
// stat reads and login/usage writes.
type Server struct {
	addr      string
	stats     model.StatQuerier
	recorder  *ingest.Recorder
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, stats model.StatQuerier, recorder *ingest.Recorder) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		stats:    stats,
		recorder: recorder,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/stats", s.handleStats)
	r.GET("/api/logins/recent", s.handleRecentLogins)
	r.POST("/api/login", s.handleLogin)
	r.POST("/api/usage/:feature", s.handleUsage)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	users, err := s.stats.UserCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"user_count": users,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	snap, err := s.stats.StatsSnapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stats"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleRecentLogins(c *gin.Context) {
	records, err := s.stats.RecentLogins(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read logins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logins": records})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing email field"})
		return
	}

	if err := s.recorder.RecordLogin(req.Email); err != nil {
		if errors.Is(err, store.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please enter a valid email address"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "welcome, " + store.NormalizeEmail(req.Email) + "!"})
}

func (s *Server) handleUsage(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing email field"})
		return
	}

	feature := c.Param("feature")
	if err := s.recorder.RecordUsage(req.Email, feature); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "please enter a valid email address"})
		case errors.Is(err, store.ErrUnknownFeature):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown feature: " + feature})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record usage"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"feature": feature})
}
