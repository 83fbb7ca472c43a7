package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fixtures",
		Long:  `List every fixture in the configured source with the component it renders.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			src, _, err := openSource(ctx, cfg, newLogger())
			if err != nil {
				return err
			}
			names, err := src.List(ctx)
			if err != nil {
				return err
			}

			reg := newRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIXTURE\tCOMPONENT\tSTATUS")
			for _, name := range names {
				named, err := src.Load(ctx, name)
				if err != nil {
					fmt.Fprintf(w, "%s\t-\t%s\n", name, err)
					continue
				}
				status := "ok"
				if _, err := reg.Lookup(named.Component); err != nil {
					status = "unknown component"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, named.Component, status)
			}
			return w.Flush()
		},
	}
	return cmd
}
