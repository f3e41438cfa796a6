package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"foodgraph/kg/internal/graph"
	"foodgraph/kg/internal/render"
)

var (
	renderSelect  string
	renderJSON    bool
	renderPlotly  bool
	renderPNG     string
	renderSeed    int64
	renderItems   string
	renderVectors string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build the ingredient graph figure",
	Long: `Build the ingredient graph figure from the selected weight set.

Prints a short summary by default. --json writes the figure schema,
--plotly writes a plotly.js document and --png writes an image file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderJSON && renderPlotly {
			return fmt.Errorf("--json and --plotly are mutually exclusive")
		}
		start := time.Now()
		labels, vectors, err := loadEmbeddings(cmd.Context(), renderItems, renderVectors)
		if err != nil {
			return err
		}

		opts := cfg.Graph
		if cmd.Flags().Changed("seed") {
			opts.Layout.Seed = renderSeed
		}
		selected := parseSelection(renderSelect)

		fig, g, err := graph.FromEmbeddings(labels, vectors, selected, opts)
		if err != nil {
			return fmt.Errorf("building figure: %w", err)
		}
		log.Info("figure built",
			"items", len(labels),
			"nodes", len(g.Nodes),
			"edges", len(g.Edges),
			"duplicates", len(g.Duplicates),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		for _, s := range selected {
			if !g.HasNode(s) {
				log.Warn("selected item has no edges above threshold", "item", s)
			}
		}

		if renderPNG != "" {
			if err := writePNG(renderPNG, fig); err != nil {
				return err
			}
		}

		switch {
		case renderJSON:
			return writeJSON(cmd.OutOrStdout(), fig)
		case renderPlotly:
			return writeJSON(cmd.OutOrStdout(), fig.Plotly())
		case renderPNG == "":
			fmt.Fprintf(cmd.OutOrStdout(), "%d items, %d nodes, %d edges above %.2f\n",
				len(labels), fig.NodeCount(), fig.EdgeCount(), opts.Threshold)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderSelect, "select", "", "Comma separated items to highlight")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "Write the figure as JSON")
	renderCmd.Flags().BoolVar(&renderPlotly, "plotly", false, "Write a plotly.js figure document")
	renderCmd.Flags().StringVar(&renderPNG, "png", "", "Write a PNG image to this path")
	renderCmd.Flags().Int64Var(&renderSeed, "seed", 0, "Layout seed (0 picks a random layout)")
	renderCmd.Flags().StringVar(&renderItems, "items", "", "Read item labels from this file instead of the database")
	renderCmd.Flags().StringVar(&renderVectors, "vectors", "", "Read vectors from this .npy file instead of the database")
	rootCmd.AddCommand(renderCmd)
}

func parseSelection(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePNG(path string, fig *graph.Figure) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	opts := renderOptions()
	if err := render.PNG(f, fig, opts); err != nil {
		f.Close()
		return fmt.Errorf("rendering png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info("png written", "path", path, "width", opts.Width, "height", opts.Height)
	return nil
}

func renderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Width = cfg.Render.Width
	opts.Height = cfg.Render.Height
	opts.FontPath = cfg.Render.FontPath
	return opts
}
