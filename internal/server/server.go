package server

import (
	"context"
	"embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodgraph/kg/internal/db"
	"foodgraph/kg/internal/graph"
	"foodgraph/kg/internal/logger"
	"foodgraph/kg/internal/render"
)

//go:embed web/index.html
var webFS embed.FS

// Store is the read side of the weight set store.
type Store interface {
	WeightSets(ctx context.Context) ([]db.WeightSetInfo, error)
	Labels(ctx context.Context, name string) ([]string, error)
	LoadWeightSet(ctx context.Context, name string) (*db.WeightSet, error)
}

type Config struct {
	Graph          graph.Options
	Render         render.Options
	DefaultWeights string
	AllowOrigins   []string
}

type Server struct {
	store Store
	cfg   Config
	log   *logger.Logger
}

func New(store Store, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{store: store, cfg: cfg, log: log}
}

// Router wires middleware and routes onto a fresh engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(s.log))
	router.Use(CORS(s.cfg.AllowOrigins))

	router.GET("/", s.Index)
	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/weights", s.ListWeights)
		api.GET("/items", s.ListItems)
		api.GET("/figure", s.Figure)
		api.GET("/figure.png", s.FigurePNG)
		api.GET("/analyze", s.Analyze)
	}
	return router
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
