package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"foodgraph/kg/internal/graph"
)

var (
	similarTopN    int
	similarMin     float64
	similarJSON    bool
	similarItems   string
	similarVectors string
)

var similarCmd = &cobra.Command{
	Use:   "similar <item>",
	Short: "List the items most similar to an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if similarTopN < 0 {
			return fmt.Errorf("--top-n must not be negative, got %d", similarTopN)
		}
		labels, vectors, err := loadEmbeddings(cmd.Context(), similarItems, similarVectors)
		if err != nil {
			return err
		}
		target := -1
		for i, l := range labels {
			if l == args[0] {
				target = i
				break
			}
		}
		if target < 0 {
			return fmt.Errorf("item not found: %s", args[0])
		}

		results, err := graph.FindSimilar(vectors[target], labels, vectors, args[0], similarTopN, similarMin)
		if err != nil {
			return err
		}
		if similarJSON {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		for _, r := range results {
			marker := " "
			if r.Similarity > cfg.Graph.Threshold {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %.3f  %s\n", marker, r.Similarity, r.Label)
		}
		return nil
	},
}

func init() {
	similarCmd.Flags().IntVar(&similarTopN, "top-n", 10, "Number of results")
	similarCmd.Flags().Float64Var(&similarMin, "min", 0, "Minimum similarity")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "Output as JSON")
	similarCmd.Flags().StringVar(&similarItems, "items", "", "Read item labels from this file instead of the database")
	similarCmd.Flags().StringVar(&similarVectors, "vectors", "", "Read vectors from this .npy file instead of the database")
	rootCmd.AddCommand(similarCmd)
}
