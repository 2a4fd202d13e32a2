package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aquarist-labs/glass/internal/termui"
	"github.com/aquarist-labs/glass/pkg/config"
)

func inventoryCmd() *cobra.Command {
	var (
		output   string
		physical bool
	)

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show the node's network interfaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := config.CreateInventoryProvider(&cfg.Inventory)
			if err != nil {
				return err
			}

			inv, err := provider.Inventory(cmd.Context())
			if err != nil {
				return err
			}

			if physical {
				inv.NICs = inv.Physical()
			}

			if done, err := printStructured(cmd.OutOrStdout(), output, inv); done {
				return err
			}

			rows := make([][]string, 0, len(inv.NICs))
			for _, nic := range inv.NICs {
				addr := nic.IPv4Address
				if addr == "" {
					addr = "-"
				}
				rows = append(rows, []string{nic.Name, string(nic.Type), addr})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Host: %s\n", inv.Hostname)
			fmt.Fprintln(cmd.OutOrStdout(), termui.RenderTable([]string{"Interface", "Type", "IPv4 Address"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json, yaml")
	cmd.Flags().BoolVar(&physical, "physical", false, "only list physical interfaces (mount command candidates)")

	return cmd
}
