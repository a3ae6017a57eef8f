/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/itemdata"
	"github.com/ssargent/valheimsave/pkg/snapshot"
)

var errNoInput = errors.New("no inventory data: pass it as an argument, with --file, or on stdin")

// readInput returns args[pos] when present, else the --file contents, else stdin.
// Surrounding whitespace is trimmed so files ending in a newline decode.
func readInput(cmd *cobra.Command, args []string, pos int) (string, error) {
	if len(args) > pos {
		return strings.TrimSpace(args[pos]), nil
	}

	var (
		data []byte
		err  error
	)
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errNoInput
	}
	return text, nil
}

// decoder builds an item decoder; --trailer overrides decoder.item_trailer
func (rt *runtime) decoder(cmd *cobra.Command) (*itemdata.Decoder, error) {
	trailer := rt.cfg.Decoder.ItemTrailer
	if f := cmd.Flags().Lookup("trailer"); f != nil && f.Changed {
		trailer, _ = cmd.Flags().GetInt("trailer")
	}
	if trailer < 0 {
		return nil, fmt.Errorf("invalid trailer length: %d", trailer)
	}
	return itemdata.NewDecoder(
		itemdata.WithItemTrailer(trailer),
		itemdata.WithLogger(rt.logger),
	), nil
}

// openStore opens the snapshot store in the configured data directory
func (rt *runtime) openStore() (*snapshot.Store, error) {
	if container == nil {
		return nil, fmt.Errorf("dependency container not initialized")
	}
	if err := os.MkdirAll(rt.cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return container.OpenStore(rt.cfg.DataDir)
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Read the inventory from a file")
	cmd.Flags().Int("trailer", 0, "Bytes to skip after each item (overrides decoder.item_trailer; 9 for game saves)")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputTable, "Output format: table or json")
}
