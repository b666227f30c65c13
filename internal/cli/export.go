package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"square-feet-api/internal/models"
	"square-feet-api/internal/snapshot"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every listing as a snapshot",
		Long:  "List all properties in the configured store and write them as a JSON snapshot to a file or s3://bucket/key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file or s3://bucket/key")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(cmd *cobra.Command, out string) error {
	loc, err := snapshot.ParseLocation(out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	props, err := store.List(ctx, models.PropertyFilters{})
	if err != nil {
		return err
	}

	objects, err := objectStore(ctx, loc)
	if err != nil {
		return err
	}
	if err := snapshot.Write(ctx, objects, loc, props); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d properties to %s\n", len(props), loc)
	return nil
}
