package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"foodgraph/kg/internal/db"
)

var (
	importItems   string
	importVectors string
	importDelete  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Store an item list and its embeddings as a named weight set",
	Example: `  foodgraph import --items items.txt --vectors vectors.npy --weights word2vec
  foodgraph import --items items.txt --vectors ft_vectors.npy --weights fasttext
  foodgraph import --delete --weights fasttext`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := selectedWeights()
		if importDelete {
			d, err := OpenDatabase()
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.DeleteWeightSet(cmd.Context(), name); err != nil {
				return fmt.Errorf("deleting weights: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted weight set %s\n", name)
			return nil
		}

		if importItems == "" || importVectors == "" {
			return fmt.Errorf("--items and --vectors are required")
		}
		labels, err := db.ReadItems(importItems)
		if err != nil {
			return err
		}
		vectors, err := db.ReadVectors(importVectors)
		if err != nil {
			return err
		}

		path := writableDBPath()
		d, err := db.OpenDB(path)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.SaveWeightSet(cmd.Context(), name, labels, vectors); err != nil {
			return fmt.Errorf("saving weights: %w", err)
		}
		log.Info("weight set imported", "weights", name, "items", len(labels), "db", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items into weight set %s (%s)\n", len(labels), name, path)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importItems, "items", "", "Item list, one label per line")
	importCmd.Flags().StringVar(&importVectors, "vectors", "", "2D .npy array with one row per item")
	importCmd.Flags().BoolVar(&importDelete, "delete", false, "Delete the weight set instead of importing")
	rootCmd.AddCommand(importCmd)
}
