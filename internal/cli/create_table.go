package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"square-feet-api/internal/database"
)

func newCreateTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-table",
		Short: "Create the properties table or indexes",
		Long:  "Create the DynamoDB table keyed by (propertyId, status) and wait until it is active, or ensure the Mongo indexes. Existing tables are left alone.",
		Args:  cobra.NoArgs,
		RunE:  runCreateTable,
	}
}

func runCreateTable(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := database.EnsureSchema(ctx, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema ready for %s store.\n", cfg.Store.Driver)
	return nil
}
