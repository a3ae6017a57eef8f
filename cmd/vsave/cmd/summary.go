/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/inventory"
	"github.com/ssargent/valheimsave/pkg/itemdata"
)

// summaryReport is what the summary command prints
type summaryReport struct {
	Version    int32                     `json:"version"`
	Summary    inventory.Summary         `json:"summary"`
	Threshold  float64                   `json:"damage_threshold"`
	Equipped   []itemdata.Item           `json:"equipped"`
	Damaged    []itemdata.Item           `json:"damaged"`
	Categories []inventory.CategoryItems `json:"categories"`
}

func buildSummary(inv *itemdata.Inventory, threshold float64) summaryReport {
	return summaryReport{
		Version:    inv.Version,
		Summary:    inventory.Summarize(inv.Items),
		Threshold:  threshold,
		Equipped:   inventory.Equipped(inv.Items),
		Damaged:    inventory.Damaged(inv.Items, threshold),
		Categories: inventory.Categorize(inv.Items),
	}
}

// newSummaryCmd represents the summary command
func newSummaryCmd(rt *runtime) *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary [base64]",
		Short: "Summarize an inventory",
		Long: `Decode an inventory and report item counts, equipped and damaged items,
crafters, and item categories.

Examples:
  vsave summary --file inventory.b64 --trailer 9
  vsave summary --threshold 25 -o json < inventory.b64`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			dec, err := rt.decoder(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}

			inv, err := dec.Parse(text)
			if err != nil {
				return fmt.Errorf("failed to parse inventory: %w", err)
			}

			threshold, _ := cmd.Flags().GetFloat64("threshold")
			report := buildSummary(inv, threshold)
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeSummary(cmd.OutOrStdout(), report)
		},
	}

	addInputFlags(summaryCmd)
	addOutputFlag(summaryCmd)
	summaryCmd.Flags().Float64("threshold", inventory.DefaultDamageThreshold, "Durability below which an item counts as damaged")

	return summaryCmd
}
