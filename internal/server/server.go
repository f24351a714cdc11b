// Package server wires the bulb controller, status monitor and HTTP API into the wizd daemon.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/internal/config"
	"github.com/jmylchreest/wizlightd/internal/events"
	"github.com/jmylchreest/wizlightd/internal/http/handlers"
	"github.com/jmylchreest/wizlightd/internal/http/mw"
	"github.com/jmylchreest/wizlightd/internal/http/routes"
	"github.com/jmylchreest/wizlightd/internal/metrics"
	"github.com/jmylchreest/wizlightd/internal/monitor"
	"github.com/jmylchreest/wizlightd/internal/utils"
	"github.com/jmylchreest/wizlightd/internal/ws"
)

// Options carries the optional parts of the daemon.
type Options struct {
	Version handlers.VersionInfo
	// Registry is served on /metrics when set
	Registry *prometheus.Registry
}

// Server manages the wizd daemon: the status monitor, periodic discovery, config
// reloads and the HTTP API.
type Server struct {
	logger     *slog.Logger
	cfg        *config.Config
	controller *bulb.Controller
	eventBus   *events.Bus
	monitor    *monitor.Monitor
	opts       Options
	logLevel   string

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
	listener   net.Listener
	httpServer *http.Server
	hub        *ws.Hub
}

// New creates a new server instance.
func New(logger *slog.Logger, cfg *config.Config, controller *bulb.Controller, eventBus *events.Bus, opts Options) *Server {
	rootCtx, rootCancel := context.WithCancel(context.Background())
	return &Server{
		logger:     logger,
		cfg:        cfg,
		controller: controller,
		eventBus:   eventBus,
		monitor:    monitor.New(logger, controller, config.ValidateMonitorInterval(cfg.Monitor.Interval)),
		opts:       opts,
		logLevel:   cfg.Logging.Level,
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
	}
}

// Monitor returns the status monitor.
func (s *Server) Monitor() *monitor.Monitor {
	return s.monitor
}

// Start launches the background workers and, when a listen address is configured,
// the HTTP API.
func (s *Server) Start() error {
	s.logger.Info("Starting wizd server")

	s.goSafe("status monitor", func() { s.monitor.Run(s.rootCtx) })

	if interval := config.ValidateDiscoveryInterval(s.cfg.Discovery.Interval); interval > 0 {
		s.goSafe("periodic discovery", func() { s.discoverLoop(s.rootCtx, interval) })
	} else {
		s.logger.Info("Periodic discovery disabled")
	}

	if err := s.cfg.Watch(s.rootCtx, s.applyConfig); err != nil {
		s.logger.Warn("Config file will not be reloaded on change", "error", err)
	}

	if s.cfg.Server.ListenAddress == "" {
		return nil
	}

	listener, err := net.Listen("tcp", s.cfg.Server.ListenAddress)
	if err != nil {
		s.rootCancel()
		s.wg.Wait()
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.ListenAddress, err)
	}
	s.listener = listener
	s.logger.Info("Starting HTTP API server", "address", listener.Addr().String())

	s.httpServer = &http.Server{
		Handler:      s.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.goSafe("HTTP server", func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", "error", err)
		}
		s.logger.Info("HTTP server stopped")
	})
	return nil
}

// Addr returns the address the HTTP API listens on, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down wizd server")
	s.rootCancel()

	if s.httpServer != nil {
		s.logger.Info("Shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown failed", "error", err)
		}
	}

	s.logger.Info("Waiting for services to stop...")
	s.wg.Wait()
	s.controller.Close()
	s.logger.Info("wizd server shut down gracefully")
}

func (s *Server) router() http.Handler {
	router := chi.NewRouter()
	router.Use(mw.RequestLogging(s.logger))
	router.Use(mw.RateLimitByIP(s.cfg.Server.RequestsPerMinute, s.logger))

	api := humachi.New(router, routes.NewHumaConfig(s.opts.Version.Version, ""))
	routes.Register(api, &routes.Handlers{
		Version:   handlers.VersionCheck(s.opts.Version),
		Bulb:      &handlers.BulbHandler{Controller: s.controller},
		Discovery: &handlers.DiscoveryHandler{Controller: s.controller, DefaultTimeout: s.cfg.Discovery.Timeout},
		Widget:    &handlers.WidgetHandler{Monitor: s.monitor},
		Logging:   &handlers.LoggingHandler{Logger: s.logger},
	})

	// The hub runs until rootCtx is cancelled and pushes every bus event to connected clients.
	s.hub = ws.NewHub(s.logger, s.eventBus)
	s.goSafe("WebSocket hub", func() { s.hub.Run(s.rootCtx) })
	router.Get("/api/v1/ws", ws.Handler(s.hub, s.logger))

	if s.opts.Registry != nil {
		router.Handle("/metrics", metrics.Handler(s.opts.Registry))
	}
	return router
}

func (s *Server) discoverLoop(ctx context.Context, interval time.Duration) {
	s.logger.Info("Periodic discovery started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.discoverOnce(ctx)
		}
	}
}

func (s *Server) discoverOnce(ctx context.Context) {
	ips, added, err := s.controller.Discover(ctx, s.cfg.Discovery.Timeout, true)
	if err != nil {
		s.logger.Error("Failed to save discovered bulbs", "error", err)
		return
	}
	if added > 0 {
		s.logger.Info("Discovered new bulbs", "found", len(ips), "added", added)
	}
}

// applyConfig picks up edits made to the config file by hand or by wizctl.
func (s *Server) applyConfig(next *config.Config) {
	store := s.controller.Store()
	if store.Replace(next.Bulbs) {
		s.logger.Info("Bulb list reloaded from config", "count", len(next.Bulbs))
	}
	if store.NeedsSave() {
		if err := store.Save(); err != nil {
			s.logger.Warn("Failed to save assigned bulb ids", "error", err)
		}
	}
	if next.Logging.Level != s.logLevel {
		utils.SetLogLevel(next.Logging.Level)
		s.logLevel = next.Logging.Level
		s.logger.Info("Log level reloaded from config", "level", next.Logging.Level)
	}
}

func (s *Server) goSafe(name string, fn func()) {
	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in "+name, "recover", r)
			}
		}()
		fn()
	})
}
