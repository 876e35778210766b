package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matthieukhl/salescope/internal/config"
	"github.com/matthieukhl/salescope/internal/database"
	"github.com/matthieukhl/salescope/internal/models"
	"github.com/matthieukhl/salescope/internal/report"
)

// SalesReporter is what the report endpoint needs from the report layer.
type SalesReporter interface {
	CountryCategorySales(ctx context.Context, opts report.Options) ([]models.CountryCategorySales, error)
}

type Server struct {
	router   *gin.Engine
	db       *database.DB
	reporter SalesReporter
	defaults config.ReportConfig
}

// NewServer creates a new server instance
func NewServer(db *database.DB, reporter SalesReporter, defaults config.ReportConfig) *Server {
	router := gin.Default()

	server := &Server{
		router:   router,
		db:       db,
		reporter: reporter,
		defaults: defaults,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/reports/sales", s.salesReport)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.db.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "salescope",
		"version": "0.1.0",
	})
}

// salesReport runs the trailing-window sales report. Query parameters:
// now (RFC 3339, defaults to the current time), window (days), limit,
// policy and formulation; unset parameters fall back to the configured
// report defaults.
func (s *Server) salesReport(c *gin.Context) {
	opts := report.Options{
		WindowDays: s.defaults.WindowDays,
		Limit:      s.defaults.Limit,
	}

	if v := c.Query("now"); v != "" {
		now, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'now' parameter, want RFC 3339"})
			return
		}
		opts.Now = now.UTC()
	}
	if v := c.Query("window"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'window' parameter, want a positive day count"})
			return
		}
		opts.WindowDays = days
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter, want a positive count"})
			return
		}
		opts.Limit = limit
	}

	policy, err := report.ParsePolicy(valueOr(c.Query("policy"), s.defaults.Policy))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.Policy = policy

	formulation, err := report.ParseFormulation(valueOr(c.Query("formulation"), s.defaults.Formulation))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.Formulation = formulation

	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	rows, err := s.reporter.CountryCategorySales(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "report query failed"})
		return
	}
	if rows == nil {
		rows = []models.CountryCategorySales{}
	}

	c.JSON(http.StatusOK, gin.H{
		"report_id":    uuid.NewString(),
		"generated_at": time.Now().UTC(),
		"now":          opts.Now,
		"window_days":  opts.WindowDays,
		"formulation":  opts.Formulation,
		"policy":       opts.Policy,
		"rows":         rows,
	})
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
