// Package adminapi is the small HTTP status surface that sits alongside
// the image-transfer connection: health, readiness, Prometheus scrape,
// and a snapshot of recent session outcomes. It is independent of the
// PAIR-socket-emulating transport.Handle — a separate net/http listener,
// never on the image-transfer wire.
package adminapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/imgpair/imgpair/internal/observability"
)

var startedAt = time.Now()

// Server is the admin HTTP surface for one imgpair role process.
type Server struct {
	router  *gin.Engine
	history *History
	node    string
}

// New builds a Server for the given node label (used in metrics and
// logs) with a session-outcome history capped at historyCap entries.
// Cross-origin requests are allowed from any origin.
func New(node string, historyCap int) *Server {
	return NewWithOrigins(node, historyCap, nil)
}

// NewWithOrigins is New with an explicit CORS allow-list; a nil or empty
// origins list falls back to allowing any origin.
func NewWithOrigins(node string, historyCap int, origins []string) *Server {
	observability.InitLogger(node)
	observability.RegisterMetrics()

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(node))
	r.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies(nil)

	s := &Server{
		router:  r,
		history: NewHistory(historyCap),
		node:    node,
	}
	s.routes()
	return s
}

// History returns the server's session-outcome ring buffer, so that the
// role's main loop can record each session as it finishes.
func (s *Server) History() *History {
	return s.history
}

// Run starts the admin HTTP listener on addr. It blocks until the
// listener errors (including on graceful shutdown by the caller's
// context, if the caller wraps this with an http.Server of its own).
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ready", s.handleReady)
	s.router.GET("/sessions", s.handleSessions)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"node":   s.node,
		"uptime": time.Since(startedAt).String(),
	})
}

// handleReady reports ready as soon as the process is up: this server
// has no external dependency to wait on (the image-transfer connection
// itself is per-session, not a prerequisite of the admin surface).
func (s *Server) handleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "node": s.node})
}

func (s *Server) handleSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"node":     s.node,
		"sessions": s.history.Snapshot(),
	})
}
