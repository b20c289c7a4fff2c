// Package server exposes the worker's health and status endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/config"
	"github.com/agenthands/refinery/internal/extract"
)

type Server struct {
	cfg     *config.Config
	adapter extract.Adapter
	logger  *zap.Logger
	started time.Time
}

func NewServer(cfg *config.Config, adapter extract.Adapter, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, adapter: adapter, logger: logger, started: time.Now()}
}

func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.Healthz)
	r.GET("/status", s.Status)

	return r
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status reports the worker's configuration and probes whether the
// extraction backend currently answers.
func (s *Server) Status(c *gin.Context) {
	probeCtx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"provider":       s.cfg.LLM.Provider,
		"model_fast":     s.cfg.LLM.FastModel,
		"model_capable":  s.cfg.LLM.CapableModel,
		"model_vision":   s.cfg.LLM.VisionModel,
		"queue":          s.cfg.Worker.QueueName,
		"concurrency":    s.cfg.Worker.Concurrency,
		"llm_available":  s.adapter.IsAvailable(probeCtx),
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.SetupRouter()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
