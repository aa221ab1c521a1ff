package commands

import (
	"log/slog"
	"os"
	"time"

	"fellowharvest/lib/docstore"
	"fellowharvest/lib/scrape"
	"fellowharvest/lib/scrapers/macfound"
	"fellowharvest/lib/scrapers/wikipedia"
	"fellowharvest/lib/serviceutil"
	"fellowharvest/lib/sqliteutil"
	"fellowharvest/services/fellows"
	"fellowharvest/services/fellows/db"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Runs extraction, reconciliation and overrides over the stored documents.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		ctx := cmd.Context()

		store, err := docstore.NewStore(cfg.StoreDir)
		if err != nil {
			serviceutil.Fatal("failed to open document store", err)
		}

		var overrides fellows.OverrideTable
		if cfg.Overrides != "" {
			overrides, err = fellows.LoadOverrides(cfg.Overrides)
			if err != nil && !os.IsNotExist(err) {
				// a malformed override table is a configuration error
				// and aborts the run
				serviceutil.Fatal("failed to load override table", err)
			}
		}

		svc := fellows.NewService(store, []scrape.Extractor{
			macfound.Extractor{},
			wikipedia.Extractor{},
		}, fellows.ServiceOptions{
			Workers:    cfg.Workers,
			Reconciler: cfg.Reconciler,
		})

		t1 := time.Now()
		res, err := svc.BuildTable(ctx, overrides)
		if err != nil {
			serviceutil.Fatal("failed to build fellow table", err)
		}
		slog.Info(
			"built fellow table",
			"rows", len(res.Table.Rows),
			"audit_entries", len(res.Audit),
			"seconds", time.Since(t1).Seconds(),
		)
		for _, mismatch := range res.Report.KeyMismatches {
			slog.Warn(
				"override key mismatch",
				"identity", mismatch.Identity,
				"closest", mismatch.Closest,
				"similarity", mismatch.Similarity,
			)
		}
		for _, failure := range res.Report.SplitFailures {
			slog.Warn("split failure", "source", failure.Source, "reason", failure.Reason)
		}

		database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		err = fellows.NewStore(database).Push(ctx, res.Table)
		if err != nil {
			serviceutil.Fatal("failed to persist fellow table", err)
		}

		out, err := os.Create(cfg.OutputCsv)
		if err != nil {
			serviceutil.Fatal("failed to create output csv", err)
		}
		defer out.Close()
		err = fellows.WriteCSV(out, res.Table)
		if err != nil {
			serviceutil.Fatal("failed to write output csv", err)
		}
		slog.Info("wrote output", "csv", cfg.OutputCsv, "database", cfg.Database)
	},
}
