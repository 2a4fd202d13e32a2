package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aquarist-labs/glass/internal/termui"
	"github.com/aquarist-labs/glass/pkg/datatable"
	"github.com/aquarist-labs/glass/pkg/services"
)

func servicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"svc"},
		Short:   "Manage CephFS and NFS services",
	}

	cmd.AddCommand(
		servicesListCmd(),
		servicesAddCmd(),
		servicesDeleteCmd(),
		servicesActionsCmd(),
		servicesCredentialsCmd(),
		servicesMountCommandCmd(),
	)

	return cmd
}

func servicesListCmd() *cobra.Command {
	var (
		output     string
		sortBy     string
		descending bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			page := a.page(nil)
			if err := page.LoadData(cmd.Context()); err != nil {
				return err
			}

			rows := page.Data()
			if sortBy != "" {
				if err := datatable.Sort(page.Table(), rows, sortBy, !descending); err != nil {
					return err
				}
			}

			if done, err := printStructured(cmd.OutOrStdout(), output, rows); done {
				return err
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No services configured")
				return nil
			}

			headers := append(page.Table().Headers(), "Actions")
			cells := datatable.Render(page.Table(), rows)
			for i, row := range rows {
				var titles []string
				for _, item := range page.ActionMenu(row) {
					titles = append(titles, item.Title)
				}
				cells[i] = append(cells[i], strings.Join(titles, ", "))
			}

			fmt.Fprintln(cmd.OutOrStdout(), termui.RenderTable(headers, cells))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json, yaml")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by property (name, type, reservation, raw_size, replicas)")
	cmd.Flags().BoolVar(&descending, "desc", false, "sort in descending order")

	return cmd
}

func servicesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "add {cephfs|nfs}",
		Short:     "Create a service interactively",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(services.TypeCephFS), string(services.TypeNFS)},
		RunE: func(cmd *cobra.Command, args []string) error {
			serviceType, err := services.ParseType(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			dialogs := termui.NewDialogs(cmd.InOrStdin(), cmd.OutOrStdout(), a.directory, false)
			page := a.page(dialogs)

			created, err := page.AddService(cmd.Context(), serviceType)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			headers := page.Table().Headers()
			fmt.Fprintln(cmd.OutOrStdout(), termui.RenderTable(headers, datatable.Render(page.Table(), page.Data())))
			return nil
		},
	}
}

func servicesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a service and its credential",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.directory.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Service %s deleted\n", args[0])
			return nil
		},
	}
}

func servicesActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions NAME",
		Short: "List the actions available for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			desc, err := a.directory.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			items := a.page(nil).ActionMenu(*desc)
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No actions available for %s service %s\n", desc.Type.Label(), desc.Name)
				return nil
			}
			for _, item := range items {
				fmt.Fprintln(cmd.OutOrStdout(), item.Title)
			}
			return nil
		},
	}
}

func servicesCredentialsCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "credentials NAME",
		Short: "Show the CephX credential of a CephFS service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			dialogs := termui.NewDialogs(cmd.InOrStdin(), cmd.OutOrStdout(), a.directory, reveal)
			return a.page(dialogs).ShowCredentials(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the secret key in clear")

	return cmd
}

func servicesMountCommandCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "mount-command NAME",
		Short: "Show the command line that mounts a CephFS service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			page := a.page(termui.NewDialogs(cmd.InOrStdin(), cmd.OutOrStdout(), a.directory, true))
			if !raw {
				return page.ShowMountCommand(cmd.Context(), args[0])
			}

			form, err := page.MountCommandForm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			field, _ := form.Field("cmdline")
			fmt.Fprintln(cmd.OutOrStdout(), field.Value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print only the command line")

	return cmd
}
