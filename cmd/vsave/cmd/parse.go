/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/itemdata"
	"github.com/ssargent/valheimsave/pkg/savejson"
)

// newParseCmd represents the parse command
func newParseCmd(rt *runtime) *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse [base64]",
		Short: "Decode an inventory blob",
		Long: `Decode a base64 inventory blob and print its items.

The blob is taken from the argument, --file, or stdin. With --json the input is a
converted save document and every string under the inventory field is decoded.

Examples:
  vsave parse AQAAAAAAAAA=
  vsave parse --file inventory.b64 --trailer 9 -o json
  vsave parse --json --file character.json`,
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

			if isDoc, _ := cmd.Flags().GetBool("json"); isDoc {
				return rt.parseDocument(cmd, dec, text, format)
			}

			bestEffort, _ := cmd.Flags().GetBool("best-effort")
			var inv *itemdata.Inventory
			if bestEffort {
				inv, err = dec.Collect(text)
				if inv == nil {
					return fmt.Errorf("failed to parse inventory: %w", err)
				}
				if err != nil {
					rt.logger.Warn("inventory decoded partially",
						"decoded", len(inv.Items), "kind", itemdata.Kind(err), "err", err)
				}
			} else {
				inv, err = dec.Parse(text)
				if err != nil {
					return fmt.Errorf("failed to parse inventory: %w", err)
				}
			}

			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), inv)
			}
			return writeInventory(cmd.OutOrStdout(), inv)
		},
	}

	addInputFlags(parseCmd)
	addOutputFlag(parseCmd)
	parseCmd.Flags().Bool("best-effort", false, "Print the items decoded before the first failure")
	parseCmd.Flags().Bool("json", false, "Treat the input as a converted save document")
	parseCmd.Flags().String("field", "", "JSON key holding inventories (overrides decoder.inventory_field)")

	return parseCmd
}

// parseDocument decodes every inventory in a converted save document
func (rt *runtime) parseDocument(cmd *cobra.Command, dec *itemdata.Decoder, doc, format string) error {
	field := rt.cfg.Decoder.InventoryField
	if f, _ := cmd.Flags().GetString("field"); f != "" {
		field = f
	}

	results, err := savejson.DecodeAll([]byte(doc), field, dec)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		rt.logger.Warn("no inventories found", "field", field)
	}

	out := cmd.OutOrStdout()
	if format == outputJSON {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", r.Path)
			if r.Err != nil {
				fmt.Fprintf(out, "error (%s): %s\n", r.Kind, r.Error)
				continue
			}
			if err := writeInventory(out, r.Inventory); err != nil {
				return err
			}
		}
	}

	return savejson.Failures(results)
}
