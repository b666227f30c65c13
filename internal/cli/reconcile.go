package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"square-feet-api/internal/repository"
)

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Remove duplicate records for a property id",
		Long:  "Find property ids stored under more than one status, keep the most recently updated record and delete the rest. Prints the report as JSON.",
		Args:  cobra.NoArgs,
		RunE:  runReconcile,
	}
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	report := repository.ReconcileReport{Duplicates: []repository.DuplicateGroup{}}
	if r, ok := store.(repository.Reconciler); ok {
		if report, err = r.Reconcile(ctx); err != nil {
			return fmt.Errorf("reconcile failed: %w", err)
		}
	}

	return printJSON(cmd.OutOrStdout(), report)
}
