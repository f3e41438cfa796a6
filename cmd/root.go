package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"foodgraph/kg/internal/config"
	"foodgraph/kg/internal/db"
	"foodgraph/kg/internal/logger"
)

const dbFileName = ".foodgraph.db"

var (
	dbPath      string
	weightsName string

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "foodgraph",
	Short:         "Knowledge graph of recipe ingredients from word embeddings",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log, err = logger.New(cfg.App.LogMode)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to .foodgraph.db database")
	rootCmd.PersistentFlags().StringVar(&weightsName, "weights", "", "Weight set name (default from FOODGRAPH_WEIGHTS)")
}

// DiscoverDB finds the database path using priority: env > flag > walk-up > XDG fallback
func DiscoverDB() (string, error) {
	// 1. Environment variable (or config file)
	if envPath := cfg.Store.DBPath; envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		return "", fmt.Errorf("database not found at --db path: %s", dbPath)
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, dbFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 4. XDG fallback
	if xdgPath, err := xdgDBPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", fmt.Errorf("no %s found (set FOODGRAPH_DB, use --db, or run from a directory containing %s)", dbFileName, dbFileName)
}

func xdgDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "foodgraph", "foodgraph.db"), nil
}

// writableDBPath picks where import writes: an existing database if one is
// found, otherwise the env/flag path, otherwise ./.foodgraph.db.
func writableDBPath() string {
	if path, err := DiscoverDB(); err == nil {
		return path
	}
	if cfg.Store.DBPath != "" {
		return cfg.Store.DBPath
	}
	if dbPath != "" {
		return dbPath
	}
	return dbFileName
}

// OpenDatabase discovers and opens the database
func OpenDatabase() (*db.DB, error) {
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	log.Debug("opening database", "path", path)
	return db.OpenDB(path)
}

func selectedWeights() string {
	if weightsName != "" {
		return weightsName
	}
	return cfg.Store.DefaultWeights
}

// loadEmbeddings returns labels and vectors from the files when both are
// given, otherwise from the named weight set in the database.
func loadEmbeddings(ctx context.Context, itemsPath, vectorsPath string) ([]string, [][]float64, error) {
	if itemsPath != "" || vectorsPath != "" {
		if itemsPath == "" || vectorsPath == "" {
			return nil, nil, fmt.Errorf("--items and --vectors must be given together")
		}
		labels, err := db.ReadItems(itemsPath)
		if err != nil {
			return nil, nil, err
		}
		vectors, err := db.ReadVectors(vectorsPath)
		if err != nil {
			return nil, nil, err
		}
		return labels, vectors, nil
	}

	d, err := OpenDatabase()
	if err != nil {
		return nil, nil, err
	}
	defer d.Close()

	ws, err := d.LoadWeightSet(ctx, selectedWeights())
	if err != nil {
		return nil, nil, fmt.Errorf("loading weights: %w", err)
	}
	return ws.Labels, ws.Vectors, nil
}
