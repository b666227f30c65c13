package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"square-feet-api/internal/generator"
	"square-feet-api/internal/models"
	"square-feet-api/internal/snapshot"
)

func newGenerateCmd() *cobra.Command {
	var (
		count  int
		out    string
		seed   uint64
		status string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random demo listings",
		Long:  "Generate random Hyderabad listings and write them as a JSON snapshot to a file or s3://bucket/key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, count, out, seed, status)
		},
	}

	cmd.Flags().IntVar(&count, "count", generator.DefaultCount, "number of listings to generate")
	cmd.Flags().StringVar(&out, "out", "data/properties.json", "output file or s3://bucket/key")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().StringVar(&status, "status", "", "give every listing this status instead of a random one")

	return cmd
}

func runGenerate(cmd *cobra.Command, count int, out string, seed uint64, status string) error {
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	var fixed *models.Status
	if status != "" {
		st, ok := models.ParseStatus(status)
		if !ok {
			return fmt.Errorf("invalid status %q", status)
		}
		fixed = &st
	}

	loc, err := snapshot.ParseLocation(out)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	props := generator.New(seed).Properties(count, fixed)

	ctx := cmd.Context()
	objects, err := objectStore(ctx, loc)
	if err != nil {
		return err
	}
	if err := snapshot.Write(ctx, objects, loc, props); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d properties to %s\n", len(props), loc)
	return nil
}
