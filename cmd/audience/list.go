package main

import (
	"fmt"

	"github.com/ezachrisen/audience"
	"github.com/spf13/cobra"
)

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the audiences in the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			// Listing never evaluates, so no evaluator is needed.
			r := audience.New(cfg, nil)
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
			return nil
		},
	}
}
