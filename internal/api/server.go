// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediarelay/internal/commands"
	"mediarelay/internal/common/config"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/dispatch"
	"mediarelay/internal/mediaapi"
	"mediarelay/internal/models"
)

// UpstreamChecker reports the version of a media-management service. Used by
// the admin status endpoint to verify API connectivity.
type UpstreamChecker interface {
	SystemStatus(ctx context.Context) (*mediaapi.SystemStatus, error)
}

// dispatchTimeout bounds one background dispatch, covering render, metadata
// enrichment and the full fan-out.
const dispatchTimeout = 30 * time.Second

// maxPayloadBytes caps an inbound webhook body.
const maxPayloadBytes = 1 << 20

// adminCooldown spaces repeated admin mutations from the same caller.
const adminCooldown = 3 * time.Second

// Server exposes the webhook ingestion endpoint. Receipt is acknowledged
// immediately; rendering and delivery happen in the background so a slow
// chat platform never backpressures the upstream service.
type Server struct {
	engine    *gin.Engine
	router    *dispatch.Router
	sources   *commands.ManageSource
	cooldowns *commands.CooldownTracker
	upstreams map[string]UpstreamChecker
	http      *http.Server
	logger    logger.Logger
}

func NewServer(cfg config.ServerConfig, router *dispatch.Router, sources *commands.ManageSource, upstreams map[string]UpstreamChecker, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		router:    router,
		sources:   sources,
		cooldowns: commands.NewCooldownTracker(),
		upstreams: upstreams,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
	}
	s.routes()

	s.http = &http.Server{
		Addr:    cfg.Addr(),
		Handler: engine,
	}
	return s
}

func (s *Server) routes() {
	s.engine.POST("/webhooks/:source", s.handleWebhook)
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.sources != nil {
		admin := s.engine.Group("/admin")
		admin.GET("/guilds/:guild/sources", s.handleListSources)
		admin.PUT("/guilds/:guild/sources/:source", s.handleAssociate)
		admin.DELETE("/guilds/:guild/sources/:source", s.handleDissociate)
		admin.GET("/upstreams", s.handleUpstreams)
	}
}

func (s *Server) handleWebhook(c *gin.Context) {
	source, ok := models.ParseSource(c.Param("source"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	// The upstream service only needs receipt confirmation; delivery outcome
	// is observable through logs and metrics.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		s.router.Dispatch(ctx, source, payload)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "source": source.String()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type associateRequest struct {
	ChannelID   string `json:"channelId" binding:"required"`
	GuildName   string `json:"guildName"`
	ChannelName string `json:"channelName"`
}

// checkCooldown enforces the per-caller spacing on admin mutations, keyed by
// client address and command name.
func (s *Server) checkCooldown(c *gin.Context, command string) bool {
	ok, remaining := s.cooldowns.Check(c.ClientIP(), command, adminCooldown)
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("cooldown active, retry in %s", remaining.Round(time.Second)),
		})
	}
	return ok
}

func (s *Server) handleAssociate(c *gin.Context) {
	if !s.checkCooldown(c, "associate") {
		return
	}

	source, ok := models.ParseSource(c.Param("source"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	var req associateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := s.sources.Associate(c.Request.Context(), source, c.Param("guild"),
		req.GuildName, req.ChannelID, req.ChannelName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": reply})
}

func (s *Server) handleDissociate(c *gin.Context) {
	if !s.checkCooldown(c, "dissociate") {
		return
	}

	source, ok := models.ParseSource(c.Param("source"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	reply, err := s.sources.Dissociate(c.Request.Context(), source, c.Param("guild"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": reply})
}

// handleUpstreams pings every configured media-management API and reports
// version or error per service.
func (s *Server) handleUpstreams(c *gin.Context) {
	out := make(map[string]gin.H, len(s.upstreams))
	for name, checker := range s.upstreams {
		status, err := checker.SystemStatus(c.Request.Context())
		if err != nil {
			out[name] = gin.H{"reachable": false, "error": err.Error()}
			continue
		}
		out[name] = gin.H{"reachable": true, "version": status.Version}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListSources(c *gin.Context) {
	bindings, err := s.sources.List(c.Request.Context(), c.Param("guild"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bindings)
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.http.Addr,
	})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
