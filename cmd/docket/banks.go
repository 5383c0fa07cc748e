package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/docket/internal/banks"
	"github.com/Veraticus/docket/internal/cli"
)

func banksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List the supported banks in the order they are tried",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.RenderBanks(cmd.OutOrStdout(), banks.Default())
		},
	}
}
