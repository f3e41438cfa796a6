package cmd

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"foodgraph/kg/internal/graph"
)

var (
	analyzeJSON         bool
	analyzeTopN         int
	analyzeHubThreshold int
	analyzeItems        string
	analyzeVectors      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze graph structure: components, isolated items, hubs, bridges",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeTopN < 0 {
			return fmt.Errorf("--top-n must not be negative, got %d", analyzeTopN)
		}
		labels, vectors, err := loadEmbeddings(cmd.Context(), analyzeItems, analyzeVectors)
		if err != nil {
			return err
		}

		m, err := graph.BuildSimilarity(vectors)
		if err != nil {
			return fmt.Errorf("building similarity: %w", err)
		}
		g, err := graph.NewKnowledge(m, labels, cfg.Graph.Threshold)
		if err != nil {
			return fmt.Errorf("building graph: %w", err)
		}

		config := &graph.AnalyzerConfig{
			HubThreshold: analyzeHubThreshold,
			TopN:         analyzeTopN,
		}

		report := graph.Analyze(g, config)

		if analyzeJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}

		printHumanReadable(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of top items to show per section")
	analyzeCmd.Flags().IntVar(&analyzeHubThreshold, "hub-threshold", 5, "Degree an item must exceed to count as a hub")
	analyzeCmd.Flags().StringVar(&analyzeItems, "items", "", "Read item labels from this file instead of the database")
	analyzeCmd.Flags().StringVar(&analyzeVectors, "vectors", "", "Read vectors from this .npy file instead of the database")
	rootCmd.AddCommand(analyzeCmd)
}

func printHumanReadable(report *graph.AnalysisReport) {
	t := report.Topology
	fmt.Printf("\n  Threshold: %.2f\n\n", report.Threshold)

	fmt.Println("  TOPOLOGY")
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Items: %d  Nodes: %d  Edges: %d  Components: %d\n",
		t.TotalItems, t.TotalNodes, t.TotalEdges, t.NumComponents)
	fmt.Printf("  Largest component: %d  Smallest: %d\n", t.LargestComponent, t.SmallestComponent)
	if t.TotalEdges > 0 {
		fmt.Printf("  Mean similarity: %.3f\n", t.MeanWeight)
	}

	if t.IsolatedCount > 0 {
		fmt.Printf("  Isolated: %d items without a similar partner\n", t.IsolatedCount)
		limit := 5
		if len(t.IsolatedLabels) < limit {
			limit = len(t.IsolatedLabels)
		}
		for _, label := range t.IsolatedLabels[:limit] {
			fmt.Printf("    - %s\n", truncTitle(label, 50))
		}
		if t.IsolatedCount > 5 {
			fmt.Printf("    ... and %d more\n", t.IsolatedCount-5)
		}
	}
	if len(t.DuplicateLabels) > 0 {
		fmt.Printf("  Duplicate labels merged: %s\n", strings.Join(t.DuplicateLabels, ", "))
	}

	// Degree distribution
	fmt.Println("\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count > 0 {
			barWidth := int(math.Log2(float64(b.Count))) + 2
			fmt.Printf("    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	if len(t.Hubs) > 0 {
		fmt.Println("\n  Top hubs (degree > threshold):")
		for _, hub := range t.Hubs {
			fmt.Printf("    %-24s degree=%d  strongest=%s (%.3f)\n",
				truncTitle(hub.Label, 24), hub.Degree, truncTitle(hub.Strongest, 24), hub.MaxWeight)
		}
	}

	br := report.Bridges
	if br.CutCount > 0 || br.BridgeCount > 0 {
		fmt.Println("\n  STRUCTURAL FRAGILITY")
		fmt.Println("  ────────────────────────────────────────")
		if br.CutCount > 0 {
			fmt.Printf("  %d cut items (removal splits a cluster):\n", br.CutCount)
			limit := 10
			if len(br.CutItems) < limit {
				limit = len(br.CutItems)
			}
			for _, ci := range br.CutItems[:limit] {
				fmt.Printf("    %s (degree %d)\n", truncTitle(ci.Label, 40), ci.Degree)
			}
		}
		if br.BridgeCount > 0 {
			fmt.Printf("  %d bridge edges (removal splits a cluster):\n", br.BridgeCount)
			limit := 10
			if len(br.BridgeEdges) < limit {
				limit = len(br.BridgeEdges)
			}
			for _, be := range br.BridgeEdges[:limit] {
				fmt.Printf("    %s -- %s  %.3f\n", truncTitle(be.Source, 30), truncTitle(be.Target, 30), be.Weight)
			}
		}
	}

	fmt.Println()
}

func truncTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// back up to a rune boundary
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
