package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/payroll/internal/logger"
)

// Config controls the listener and request limits.
type Config struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string

	// RateLimit is requests per second across all clients. Zero disables it.
	RateLimit int

	// Burst is the token bucket size used with RateLimit.
	Burst int
}

// Server is the HTTP dashboard server.
type Server struct {
	ports  *Ports
	cfg    Config
	engine *gin.Engine
}

// NewServer creates a new HTTP server with the given ports.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:  ports,
		cfg:    cfg,
		engine: gin.New(),
	}

	s.engine.Use(gin.Recovery(), requestID(), accessLog())
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.engine.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)))
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	r := s.engine
	r.GET("/health", s.health)
	r.GET("/", s.dashboard)
	r.POST("/add", s.addEmployee)
	r.GET("/edit/:id", s.showEmployee)
	r.POST("/edit/:id", s.editEmployee)
	r.GET("/delete/:id", s.deleteEmployee)
	r.POST("/delete/:id", s.deleteEmployee)
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown: %v", err)
		}
	}()

	logger.Info("Payroll dashboard listening on %s", s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
