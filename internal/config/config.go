package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"foodgraph/kg/internal/graph"
	"foodgraph/kg/internal/render"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

type AppConfig struct {
	Env        Environment `yaml:"env"`
	LogMode    string      `yaml:"log_mode"`
	ServerPort string      `yaml:"server_port"`
}

type StoreConfig struct {
	DBPath         string `yaml:"db"`
	DefaultWeights string `yaml:"default_weights"`
}

type RenderConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FontPath string `yaml:"font"`
}

type Config struct {
	App    AppConfig     `yaml:"app"`
	Store  StoreConfig   `yaml:"store"`
	Graph  graph.Options `yaml:"graph"`
	Render RenderConfig  `yaml:"render"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:        Development,
			LogMode:    "development",
			ServerPort: "8501",
		},
		Store: StoreConfig{
			DefaultWeights: "word2vec",
		},
		Graph: graph.DefaultOptions(),
		Render: RenderConfig{
			Width:  1200,
			Height: 800,
		},
	}
}

// Load reads .env (if present), then the YAML file named by FOODGRAPH_CONFIG
// (if set), then environment variables. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("FOODGRAPH_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.App.Env = parseEnvironment(getEnv("APP_ENV", string(cfg.App.Env)))
	cfg.App.LogMode = getEnv("APP_LOG_MODE", defaultLogMode(cfg.App.Env, cfg.App.LogMode))
	cfg.App.ServerPort = getEnv("APP_SERVER_PORT", cfg.App.ServerPort)

	cfg.Store.DBPath = getEnv("FOODGRAPH_DB", cfg.Store.DBPath)
	cfg.Store.DefaultWeights = getEnv("FOODGRAPH_WEIGHTS", cfg.Store.DefaultWeights)

	g := &cfg.Graph
	g.Threshold = getEnvFloat("GRAPH_THRESHOLD", g.Threshold)
	g.HighlightSize = getEnvFloat("GRAPH_HIGHLIGHT_SIZE", g.HighlightSize)
	g.DefaultSize = getEnvFloat("GRAPH_DEFAULT_SIZE", g.DefaultSize)
	g.ColorScale = getEnv("GRAPH_COLORSCALE", g.ColorScale)
	g.Title = getEnv("GRAPH_TITLE", g.Title)
	g.Layout.Iterations = getEnvInt("GRAPH_LAYOUT_ITERATIONS", g.Layout.Iterations)
	g.Layout.Seed = int64(getEnvInt("GRAPH_LAYOUT_SEED", int(g.Layout.Seed)))

	cfg.Render.Width = getEnvInt("RENDER_WIDTH", cfg.Render.Width)
	cfg.Render.Height = getEnvInt("RENDER_HEIGHT", cfg.Render.Height)
	cfg.Render.FontPath = getEnv("RENDER_FONT", cfg.Render.FontPath)

	return cfg, nil
}

func (c *Config) Validate() error {
	g := c.Graph
	if g.Threshold < -1 || g.Threshold > 1 {
		return fmt.Errorf("GRAPH_THRESHOLD must be within [-1, 1], got %v", g.Threshold)
	}
	if g.HighlightSize <= 0 || g.DefaultSize <= 0 {
		return fmt.Errorf("marker sizes must be positive, got %v/%v", g.HighlightSize, g.DefaultSize)
	}
	if !render.HasColorScale(g.ColorScale) {
		return fmt.Errorf("%w: %q (known: %s)", render.ErrUnknownColorScale, g.ColorScale,
			strings.Join(render.ColorScales(), ", "))
	}
	if g.Layout.Iterations <= 0 {
		return fmt.Errorf("GRAPH_LAYOUT_ITERATIONS must be positive, got %d", g.Layout.Iterations)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Store.DefaultWeights == "" {
		return fmt.Errorf("FOODGRAPH_WEIGHTS must not be empty")
	}
	return nil
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func defaultLogMode(env Environment, current string) string {
	if env == Production && current == "development" {
		return "production"
	}
	return current
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
