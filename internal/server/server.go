package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voiceshell/gui-service/internal/config"
	"github.com/voiceshell/gui-service/internal/gui"
	"github.com/voiceshell/gui-service/internal/logging"
	"github.com/voiceshell/gui-service/internal/namespace"
	"github.com/voiceshell/gui-service/internal/resources"
	"go.uber.org/zap"
)

// ResourceRoute is the path prefix the resource store is served under.
const ResourceRoute = "/res"

// Server hosts the GUI websocket route, the page resource files and the
// health/status/metrics endpoints on a single listener.
type Server struct {
	log     *logging.Logger
	engine  *gin.Engine
	httpSrv *http.Server
	hub     *gui.Hub
	manager *namespace.Manager
}

// New wires the HTTP server. store may be nil when the file server is
// disabled.
func New(cfg *config.Config, hub *gui.Hub, manager *namespace.Manager,
	store *resources.Store, log *logging.Logger) *Server {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	s := &Server{
		log:     log.Named("server"),
		engine:  engine,
		hub:     hub,
		manager: manager,
	}

	engine.GET("/health", s.handleHealth)
	engine.GET("/status", s.handleStatus)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET(cfg.GUI.Route, hub.HandleConnection)
	if store != nil {
		engine.Static(ResourceRoute, store.Root())
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.httpSrv = &http.Server{Addr: addr, Handler: engine}
	return s
}

// Run starts serving and blocks until the listener fails or shuts down.
func (s *Server) Run() error {
	s.log.Info("gui service listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains connections and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected":  s.hub.ConnectedCount() > 0,
		"clients":    s.hub.ConnectedCount(),
		"frameworks": s.hub.ConnectedFrameworks(),
		"namespaces": s.manager.StackDepth(),
	})
}
