// Package cli defines the cobra command tree for the seed admin tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"square-feet-api/config"
	"square-feet-api/internal/database"
	"square-feet-api/internal/logging"
	"square-feet-api/internal/repository"
	"square-feet-api/internal/s3"
	"square-feet-api/internal/snapshot"
)

var _ snapshot.ObjectStore = (*s3.Uploader)(nil)

var (
	flagConfigDir string
	flagDriver    string

	cfg config.Config
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Maintain the SquareFeet property store",
		Long:          "Create tables, generate demo listings, load and export snapshots, and repair duplicate records.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&flagConfigDir, "config", "./config", "directory holding config.yaml")
	root.PersistentFlags().StringVar(&flagDriver, "driver", "", "store driver override (dynamodb|mongo|memory)")

	root.AddCommand(
		newCreateTableCmd(),
		newGenerateCmd(),
		newLoadCmd(),
		newExportCmd(),
		newReconcileCmd(),
	)

	return root
}

func loadConfig() error {
	config.LoadDotEnv()
	loaded, err := config.LoadConfig(flagConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagDriver != "" {
		loaded.Store.Driver = flagDriver
	}
	cfg = loaded
	logging.Setup(cfg.Server.Env, cfg.Log.Level)
	return nil
}

// openStore opens the configured store. The returned func closes it, logging any error.
func openStore(ctx context.Context) (repository.PropertyStore, func(), error) {
	store, closeStore, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := closeStore(context.Background()); err != nil {
			slog.Warn("closing store", "error", err)
		}
	}, nil
}

// objectStore returns an S3 client when loc points at a bucket, nil otherwise.
func objectStore(ctx context.Context, loc snapshot.Location) (snapshot.ObjectStore, error) {
	if !loc.IsS3() {
		return nil, nil
	}
	uploader, err := s3.NewUploader(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	return uploader, nil
}

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
