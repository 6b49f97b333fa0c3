package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// ErrMissingPort is returned when a required driving port is not provided.
var ErrMissingPort = errors.New("web: required service missing")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Analysis       driving.AnalysisService
	Reports        driving.ReportService
	Similarity     driving.SimilarityService
	Classification driving.ClassificationService
	Export         driving.ExportService
}

// Validate ensures all ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Analysis == nil:
		return fmt.Errorf("%w: analysis", ErrMissingPort)
	case p.Reports == nil:
		return fmt.Errorf("%w: reports", ErrMissingPort)
	case p.Similarity == nil:
		return fmt.Errorf("%w: similarity", ErrMissingPort)
	case p.Classification == nil:
		return fmt.Errorf("%w: classification", ErrMissingPort)
	case p.Export == nil:
		return fmt.Errorf("%w: export", ErrMissingPort)
	}
	return nil
}

// Config holds server options.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// MaxBodyBytes rejects larger request bodies. Zero uses 16 MiB.
	MaxBodyBytes int64

	// AllowOrigins lists CORS origins. Empty allows any origin.
	AllowOrigins []string
}

// Server is the HTTP interface.
type Server struct {
	Engine *gin.Engine
	cfg    Config
}

// NewServer validates the ports and builds the router.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = domain.DefaultMaxFileBytes
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return &Server{Engine: NewRouter(ports, cfg), cfg: cfg}, nil
}

// NewRouter wires middleware and routes.
func NewRouter(ports *Ports, cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORS(cfg.AllowOrigins))
	r.MaxMultipartMemory = cfg.MaxBodyBytes

	h := NewHandler(ports, cfg.MaxBodyBytes)

	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	api.Use(BodyLimit(cfg.MaxBodyBytes))
	{
		api.POST("/analyze", h.Analyze)
		api.POST("/classify", h.Classify)
		api.POST("/apply-classification", h.ApplyClassification)
		api.POST("/similar", h.Similar)
		api.GET("/reports", h.ListReports)
		api.GET("/reports/:id", h.GetReport)
		api.POST("/export", h.Export)
	}

	return r
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Infow("HTTP server listening", "addr", s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
