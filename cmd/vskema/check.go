package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check SCHEMA...",
		Short: "Check that schema files load",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if _, err := loadSchema(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", path)
			}
			return nil
		},
	}
}
