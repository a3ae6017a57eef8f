/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/inventory"
	"github.com/ssargent/valheimsave/pkg/itemdata"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// outputFormat validates --output
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case outputTable, outputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeItems(w io.Writer, items []itemdata.Item) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "#\tNAME\tSTACK\tDURABILITY\tSLOT\tEQUIPPED\tQUALITY\tVARIANT\tCRAFTER")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f\t%d,%d\t%t\t%d\t%d\t%s\n",
			i, it.Name, it.Stack, it.Durability, it.PosX, it.PosY, it.Equipped, it.Quality, it.Variant, crafter(it))
	}
	return tw.Flush()
}

func crafter(it itemdata.Item) string {
	if it.CrafterName == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", it.CrafterName, it.CrafterID)
}

func writeInventory(w io.Writer, inv *itemdata.Inventory) error {
	fmt.Fprintf(w, "Version: %d\nItems:   %d\n\n", inv.Version, len(inv.Items))
	return writeItems(w, inv.Items)
}

func writeSummary(w io.Writer, r summaryReport) error {
	s := r.Summary
	fmt.Fprintf(w, "Version:  %d\nItems:    %d\nEquipped: %d\n", r.Version, s.Total, s.Equipped)
	if s.Durability != nil {
		fmt.Fprintf(w, "Durability: avg %.1f, min %.1f over %d items\n",
			s.Durability.Average, s.Durability.Min, s.Durability.Count)
	}

	writeCounts(w, "By name", s.ByName)
	writeCounts(w, "Crafters", s.Crafters)

	if len(r.Damaged) > 0 {
		fmt.Fprintf(w, "\nDamaged (below %.0f):\n", r.Threshold)
		for _, it := range r.Damaged {
			fmt.Fprintf(w, "  %s at %d,%d: %.1f\n", it.Name, it.PosX, it.PosY, it.Durability)
		}
	}

	if len(r.Categories) > 0 {
		fmt.Fprintln(w, "\nCategories:")
		for _, c := range r.Categories {
			fmt.Fprintf(w, "  %s: %d\n", c.Name, len(c.Items))
		}
	}
	return nil
}

func writeCounts(w io.Writer, title string, counts []inventory.NameCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	tw := newTabWriter(w)
	for _, c := range counts {
		fmt.Fprintf(tw, "  %s\t%d\n", c.Name, c.Count)
	}
	_ = tw.Flush()
}

func writeChanges(w io.Writer, c inventory.Changes) {
	if c.Empty() {
		fmt.Fprintln(w, "No changes")
		return
	}
	for _, it := range c.Added {
		fmt.Fprintf(w, "+ %s x%d at %d,%d\n", it.Name, it.Stack, it.PosX, it.PosY)
	}
	for _, it := range c.Removed {
		fmt.Fprintf(w, "- %s x%d at %d,%d\n", it.Name, it.Stack, it.PosX, it.PosY)
	}
	for _, ch := range c.Changed {
		b, a := ch.Before, ch.After
		fmt.Fprintf(w, "~ %s at %d,%d:", a.Name, a.PosX, a.PosY)
		if b.Stack != a.Stack {
			fmt.Fprintf(w, " stack %d -> %d", b.Stack, a.Stack)
		}
		if b.Durability != a.Durability {
			fmt.Fprintf(w, " durability %.1f -> %.1f", b.Durability, a.Durability)
		}
		if b.Quality != a.Quality {
			fmt.Fprintf(w, " quality %d -> %d", b.Quality, a.Quality)
		}
		if b.Equipped != a.Equipped {
			fmt.Fprintf(w, " equipped %t -> %t", b.Equipped, a.Equipped)
		}
		fmt.Fprintln(w)
	}
}
