/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/inventory"
	"github.com/ssargent/valheimsave/pkg/snapshot"
)

// newSnapshotCmd represents the snapshot command group
func newSnapshotCmd(rt *runtime) *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store and compare inventories",
		Long: `Snapshots keep decoded inventories in the data directory so they can be
listed, shown and compared later.

Examples:
  vsave snapshot save "before swamp run" --file inventory.b64
  vsave snapshot list
  vsave snapshot diff <from-id> <to-id>`,
	}

	snapshotCmd.AddCommand(
		newSnapshotSaveCmd(rt),
		newSnapshotListCmd(rt),
		newSnapshotShowCmd(rt),
		newSnapshotDiffCmd(rt),
		newSnapshotDeleteCmd(rt),
	)
	return snapshotCmd
}

// withStore opens the store for the duration of fn
func (rt *runtime) withStore(fn func(*snapshot.Store) error) error {
	store, err := rt.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			rt.logger.Error("failed to close snapshot store", "err", cerr)
		}
	}()
	return fn(store)
}

func newSnapshotSaveCmd(rt *runtime) *cobra.Command {
	saveCmd := &cobra.Command{
		Use:   "save <label> [base64]",
		Short: "Decode an inventory and store it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := rt.decoder(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args, 1)
			if err != nil {
				return err
			}
			inv, err := dec.Parse(text)
			if err != nil {
				return fmt.Errorf("failed to parse inventory: %w", err)
			}

			return rt.withStore(func(store *snapshot.Store) error {
				snap, err := store.Create(args[0], inv)
				if err != nil {
					return err
				}
				rt.logger.Info("snapshot stored", "id", snap.ID, "label", snap.Label, "items", len(inv.Items))
				fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
				return nil
			})
		},
	}
	addInputFlags(saveCmd)
	return saveCmd
}

func newSnapshotListCmd(rt *runtime) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			return rt.withStore(func(store *snapshot.Store) error {
				snaps, err := store.List()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if format == outputJSON {
					return writeJSON(out, snaps)
				}
				tw := newTabWriter(out)
				fmt.Fprintln(tw, "ID\tLABEL\tCREATED\tITEMS")
				for _, s := range snaps {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
						s.ID, s.Label, s.CreatedAt.Local().Format(time.DateTime), len(s.Inventory.Items))
				}
				return tw.Flush()
			})
		},
	}
	addOutputFlag(listCmd)
	return listCmd
}

func newSnapshotShowCmd(rt *runtime) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the items of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			return rt.withStore(func(store *snapshot.Store) error {
				snap, err := store.Get(args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if format == outputJSON {
					return writeJSON(out, snap)
				}
				fmt.Fprintf(out, "Snapshot: %s\nLabel:    %s\nCreated:  %s\n",
					snap.ID, snap.Label, snap.CreatedAt.Local().Format(time.DateTime))
				return writeInventory(out, &snap.Inventory)
			})
		},
	}
	addOutputFlag(showCmd)
	return showCmd
}

func newSnapshotDiffCmd(rt *runtime) *cobra.Command {
	diffCmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show what changed between two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			return rt.withStore(func(store *snapshot.Store) error {
				before, err := store.Get(args[0])
				if err != nil {
					return err
				}
				after, err := store.Get(args[1])
				if err != nil {
					return err
				}

				changes := inventory.Diff(before.Inventory.Items, after.Inventory.Items)
				if format == outputJSON {
					return writeJSON(cmd.OutOrStdout(), changes)
				}
				writeChanges(cmd.OutOrStdout(), changes)
				return nil
			})
		},
	}
	addOutputFlag(diffCmd)
	return diffCmd
}

func newSnapshotDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withStore(func(store *snapshot.Store) error {
				if err := store.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
