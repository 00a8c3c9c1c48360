package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/internal/clock"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/ingest"
	ingestdomain "github.com/spendlens/spendlens/internal/ingest/domain"
	"github.com/spendlens/spendlens/internal/migration"
	"github.com/spendlens/spendlens/internal/observability/metrics"
	"github.com/spendlens/spendlens/pkg/db"
	"github.com/spendlens/spendlens/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load an extraction batch into the invoice store",
		Long: `Reads a JSON export of extracted invoice documents, resolves the
referenced organizations, departments, users, vendors and customers, and
persists the normalized invoice graph. Prints a run report as JSON.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the batch JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runIngest(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		loader ingestdomain.Loader
		svc    ingestdomain.Service
	)
	app := fx.New(
		fx.NopLogger,
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,
		ingest.Module,
		fx.Populate(&loader, &svc),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	records, err := loader.Load(ctx, path)
	if err != nil {
		return err
	}

	report, err := svc.Run(ctx, records)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
