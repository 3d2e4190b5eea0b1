package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yt-dashboard/internal/config"
	"github.com/yt-dashboard/internal/dashboard"
	"github.com/yt-dashboard/internal/models"
)

// VideoSource supplies the rows of the videos table
type VideoSource interface {
	ListVideos(ctx context.Context) ([]models.VideoRecord, error)
}

// Server represents the API server
type Server struct {
	router   *gin.Engine
	source   VideoSource
	pipeline *dashboard.Pipeline

	refresh  time.Duration
	mu       sync.Mutex
	loaded   bool
	loadedAt time.Time
	now      func() time.Time
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, source VideoSource) *Server {
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	server := &Server{
		router:   router,
		source:   source,
		pipeline: dashboard.NewPipeline(nil),
		refresh:  cfg.RefreshInterval,
		now:      time.Now,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	s.router.GET("/api/data", s.getData)
	s.router.GET("/api/videos", s.getVideos)
	s.router.GET("/api/analysis", s.getAnalysis)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

// load refreshes the pipeline source once the refresh interval has passed.
// A failed reload keeps serving the previous collection.
func (s *Server) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && s.now().Sub(s.loadedAt) < s.refresh {
		return nil
	}

	videos, err := s.source.ListVideos(ctx)
	if err != nil {
		if s.loaded {
			log.Printf("Failed to reload videos, serving data from %v: %v", s.loadedAt, err)
			return nil
		}
		return fmt.Errorf("failed to load videos: %w", err)
	}

	log.Printf("Loaded %d videos", len(videos))
	s.pipeline.SetSource(videos)
	s.loaded = true
	s.loadedAt = s.now()
	return nil
}

// getData returns every row of the videos table
func (s *Server) getData(c *gin.Context) {
	videos, err := s.source.ListVideos(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching videos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// viewRequest holds the dashboard controls passed as query parameters
type viewRequest struct {
	dashboard.FilterCriteria
	SortKey   string `form:"sortKey"`
	Direction string `form:"direction" binding:"omitempty,oneof=ascending descending"`
	Field     string `form:"field" binding:"omitempty,oneof=hash_tags hashtags topics tags"`
	Metric    string `form:"metric" binding:"omitempty,oneof=views frequency effectiveness"`
	Top       int    `form:"top" binding:"omitempty,min=1,max=100"`
}

func (r viewRequest) query() (dashboard.Query, error) {
	q := dashboard.Query{Criteria: r.FilterCriteria, TopN: r.Top}

	if r.SortKey != "" {
		key, err := dashboard.ParseField(r.SortKey)
		if err != nil {
			return q, err
		}
		direction, err := dashboard.ParseDirection(r.Direction)
		if err != nil {
			return q, err
		}
		q.Sort = &dashboard.SortSpec{Key: key, Direction: direction}
	}

	if r.Field != "" {
		field, err := dashboard.ParseCategoryField(r.Field)
		if err != nil {
			return q, err
		}
		q.Field = field
	}

	metric, err := dashboard.ParseMetric(r.Metric)
	if err != nil {
		return q, err
	}
	q.Metric = metric
	return q, nil
}

// run binds the dashboard controls and derives the views, writing the error
// response itself when it returns false
func (s *Server) run(c *gin.Context) (dashboard.Result, bool) {
	var req viewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return dashboard.Result{}, false
	}
	q, err := req.query()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return dashboard.Result{}, false
	}

	if err := s.load(c.Request.Context()); err != nil {
		log.Printf("Error loading videos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return dashboard.Result{}, false
	}

	result, err := s.pipeline.Run(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return dashboard.Result{}, false
	}
	return result, true
}

// getVideos returns the filtered and sorted table view
func (s *Server) getVideos(c *gin.Context) {
	result, ok := s.run(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    result.Total,
		"filtered": len(result.Table),
		"videos":   result.Table,
		"warnings": warnings(result.Warnings),
	})
}

// getAnalysis returns the category charts of the filtered view
func (s *Server) getAnalysis(c *gin.Context) {
	result, ok := s.run(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"field":    result.Field,
		"metric":   result.Metric,
		"top":      result.TopN,
		"filtered": len(result.Table),
		"chart":    result.Selected,
		"charts":   result.Charts,
		"warnings": warnings(result.Warnings),
	})
}

func warnings(w []string) []string {
	if w == nil {
		return []string{}
	}
	return w
}
