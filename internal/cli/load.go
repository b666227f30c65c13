package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"square-feet-api/internal/database"
	"square-feet-api/internal/snapshot"
)

func newLoadCmd() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a snapshot into the store",
		Long:  "Read a JSON snapshot from a file or s3://bucket/key and write every listing to the configured store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, in)
		},
	}

	cmd.Flags().StringVar(&in, "in", "data/properties.json", "input file or s3://bucket/key")

	return cmd
}

func runLoad(cmd *cobra.Command, in string) error {
	loc, err := snapshot.ParseLocation(in)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	objects, err := objectStore(ctx, loc)
	if err != nil {
		return err
	}
	props, err := snapshot.Read(ctx, objects, loc)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := database.SeedProperties(ctx, store, props)
	if err != nil {
		return fmt.Errorf("loaded %d of %d properties: %w", n, len(props), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d properties from %s\n", n, loc)
	return nil
}
