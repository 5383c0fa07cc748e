package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docket/internal/cli"
	"github.com/Veraticus/docket/internal/common"
	"github.com/Veraticus/docket/internal/model"
	"github.com/Veraticus/docket/internal/storage"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List documents recorded in the ledger",
		Long: `List processed documents, newest first.

Examples:
  docket history                    # Everything
  docket history --status failed    # Documents that need a look
  docket history --bank db -n 20    # The last 20 Deutsche Bank documents`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("status", "", "only show this status (classified, unclassified, failed)")
	cmd.Flags().String("bank", "", "only show this bank")
	cmd.Flags().IntP("limit", "n", 50, "maximum rows (0 = all)")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Ledger.Enabled {
		return common.NewUserError("the ledger is disabled", common.ErrMissingConfig)
	}

	var filter storage.ListFilter
	if s, _ := cmd.Flags().GetString("status"); s != "" {
		if filter.Status, err = storage.ParseStatus(s); err != nil {
			return common.NewUserError("invalid --status", err)
		}
	}
	if b, _ := cmd.Flags().GetString("bank"); b != "" {
		filter.Bank = model.Bank(b)
	}
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	ledger, err := storage.Open(ctx, cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		if closeErr := ledger.Close(); closeErr != nil {
			common.LogError(closeErr, "Failed to close ledger", nil)
		}
	}()

	records, err := ledger.ListRecords(ctx, filter)
	if err != nil {
		return err
	}
	return cli.RenderHistory(cmd.OutOrStdout(), records)
}
