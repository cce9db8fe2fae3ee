package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderexport/backend/internal/application/export"
	"github.com/orderexport/backend/internal/bootstrap"
	"github.com/orderexport/backend/internal/infrastructure/config"
	"github.com/orderexport/backend/internal/infrastructure/logger"
	"github.com/orderexport/backend/internal/infrastructure/storage"
)

// exportFlags are the command line options of the export command
type exportFlags struct {
	count   int
	format  string
	outDir  string
	s3      bool
	presign bool
}

// newRootCmd builds the export command. Results are printed to out.
func newRootCmd(out io.Writer) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recent Shopify orders to a spreadsheet",
		Long: `Fetch the most recent orders from the configured Shopify store and write
them as orders.xlsx or orders.csv, one row per line item with the unit COGS,
followed by a total row per order.

Configuration is read from config.toml, ORDEREXPORT_* environment variables
and a .env file, exactly as the server does.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := bootstrap.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync(log)

			applyConfigDefaults(cmd, flags, cfg)
			return runExport(cmd.Context(), cfg, log, flags, out)
		},
	}

	cmd.Flags().IntVarP(&flags.count, "count", "n", export.DefaultCount, "number of orders to export (1-250)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(export.DefaultFormat), "output format: xlsx or csv")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", ".", "directory the file is written to")
	cmd.Flags().BoolVar(&flags.s3, "s3", false, "upload to the configured S3 bucket instead of writing locally")
	cmd.Flags().BoolVar(&flags.presign, "presign", false, "print a presigned download URL after an S3 upload")

	return cmd
}

// applyConfigDefaults fills flags the user did not set from the export section of cfg
func applyConfigDefaults(cmd *cobra.Command, flags *exportFlags, cfg *config.Config) {
	if !cmd.Flags().Changed("count") {
		flags.count = cfg.Export.DefaultCount
	}
	if !cmd.Flags().Changed("format") {
		flags.format = cfg.Export.DefaultFormat
	}
	if !cmd.Flags().Changed("out") {
		flags.outDir = cfg.Export.OutputDir
	}
}

// runExport renders the export and stores it locally or on S3
func runExport(ctx context.Context, cfg *config.Config, log *zap.Logger, flags *exportFlags, out io.Writer) error {
	format, err := export.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	source, err := bootstrap.NewOrderSource(cfg.Shopify, log)
	if err != nil {
		return err
	}

	var sink export.ArtifactSink
	var s3 *storage.S3ObjectStorage
	if flags.s3 {
		storageCfg := cfg.Storage
		storageCfg.Backend = bootstrap.StorageS3
		if sink, err = bootstrap.NewSink(ctx, storageCfg, log); err != nil {
			return err
		}
		s3 = sink.(*storage.S3ObjectStorage)
	} else {
		sink = storage.NewLocalDirStorage(flags.outDir, log)
	}

	svc := bootstrap.NewExportService(source, sink, nil, log)

	artifact, err := svc.Export(ctx, export.Request{Count: export.ClampCount(flags.count), Format: format})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	location, err := svc.Publish(ctx, artifact)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d orders (%d rows) to %s\n", artifact.OrderCount, artifact.RowCount, location)
	if artifact.Unidentified > 0 {
		fmt.Fprintf(out, "Warning: %d line items have unidentified SKUs\n", artifact.Unidentified)
	}

	if flags.presign && s3 != nil {
		key, ok := s3.KeyFromLocation(location)
		if !ok {
			return fmt.Errorf("unexpected S3 location %q", location)
		}
		url, expiresAt, err := s3.GenerateDownloadURL(ctx, key, cfg.Storage.S3.PresignExpiration)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Download URL (expires %s): %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"), url)
	}
	return nil
}
