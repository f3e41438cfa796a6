package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	itemsJSON bool
	itemsSets bool
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List the items of a weight set, or the stored weight sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		if itemsSets {
			sets, err := d.WeightSets(cmd.Context())
			if err != nil {
				return err
			}
			if itemsJSON {
				return writeJSON(cmd.OutOrStdout(), sets)
			}
			for _, s := range sets {
				created := time.UnixMilli(s.CreatedAt).Format("2006-01-02 15:04")
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %6d items  dim=%-4d %s\n", s.Name, s.Count, s.Dim, created)
			}
			return nil
		}

		labels, err := d.Labels(cmd.Context(), selectedWeights())
		if err != nil {
			return err
		}
		if itemsJSON {
			return writeJSON(cmd.OutOrStdout(), labels)
		}
		for _, l := range labels {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

func init() {
	itemsCmd.Flags().BoolVar(&itemsJSON, "json", false, "Output as JSON")
	itemsCmd.Flags().BoolVar(&itemsSets, "sets", false, "List stored weight sets instead of items")
	rootCmd.AddCommand(itemsCmd)
}
