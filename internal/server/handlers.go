package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"foodgraph/kg/internal/db"
	"foodgraph/kg/internal/graph"
	"foodgraph/kg/internal/render"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondFailure maps domain errors onto HTTP statuses.
func respondFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrWeightSetNotFound):
		RespondError(c, http.StatusNotFound, "weights_not_found", err)
	case errors.Is(err, graph.ErrInvalidInput),
		errors.Is(err, db.ErrInvalidWeightSet),
		errors.Is(err, render.ErrUnknownColorScale):
		RespondError(c, http.StatusUnprocessableEntity, "invalid_input", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) Index(c *gin.Context) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) ListWeights(c *gin.Context) {
	sets, err := s.store.WeightSets(c.Request.Context())
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"default": s.cfg.DefaultWeights, "weights": sets})
}

func (s *Server) ListItems(c *gin.Context) {
	name := s.weightsParam(c)
	labels, err := s.store.Labels(c.Request.Context(), name)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weights": name, "items": labels})
}

func (s *Server) Figure(c *gin.Context) {
	fig, _, err := s.build(c)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, fig.Plotly())
}

func (s *Server) FigurePNG(c *gin.Context) {
	fig, _, err := s.build(c)
	if err != nil {
		respondFailure(c, err)
		return
	}
	var buf bytes.Buffer
	if err := render.PNG(&buf, fig, s.cfg.Render); err != nil {
		respondFailure(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) Analyze(c *gin.Context) {
	_, g, err := s.build(c)
	if err != nil {
		respondFailure(c, err)
		return
	}
	cfg := graph.DefaultConfig()
	if n, err := strconv.Atoi(c.Query("top_n")); err == nil && n > 0 {
		cfg.TopN = n
	}
	if n, err := strconv.Atoi(c.Query("hub_threshold")); err == nil && n > 0 {
		cfg.HubThreshold = n
	}
	c.JSON(http.StatusOK, graph.Analyze(g, cfg))
}

func (s *Server) weightsParam(c *gin.Context) string {
	if name := strings.TrimSpace(c.Query("weights")); name != "" {
		return name
	}
	return s.cfg.DefaultWeights
}

// build reloads the weight set and rebuilds the figure for one request.
func (s *Server) build(c *gin.Context) (*graph.Figure, *graph.Knowledge, error) {
	start := time.Now()
	name := s.weightsParam(c)
	ws, err := s.store.LoadWeightSet(c.Request.Context(), name)
	if err != nil {
		return nil, nil, err
	}

	opts := s.cfg.Graph
	if seed, err := strconv.ParseInt(c.Query("seed"), 10, 64); err == nil {
		opts.Layout.Seed = seed
	}
	selected := selection(c.QueryArray("selected"))

	fig, g, err := graph.FromEmbeddings(ws.Labels, ws.Vectors, selected, opts)
	if err != nil {
		return nil, nil, err
	}
	requestLogger(c, s.log).Debug("figure built",
		"weights", name,
		"items", len(ws.Labels),
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"selected", len(selected),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return fig, g, nil
}

// selection takes one label per repeated selected= value. Labels may
// contain commas.
func selection(raw []string) []string {
	var out []string
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
