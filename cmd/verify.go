package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"asset-core/core/database"
	"asset-core/core/reconcile"
	"asset-core/core/storage"
	"asset-core/feature/index"
	"asset-core/feature/publish"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	jsonVerify      bool
	skipIndexVerify bool
	skipStoreVerify bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare the catalog with the SQL index and object storage",
	Long: `Reads the catalog, the SQL index and the published objects, and reports
paths that are missing somewhere or whose ID, type or size disagree with the
catalog. Outputs metrics by default or the drifting paths as JSON with --json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		s, err := rt.openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		spec := reconcile.Spec{Catalog: reconcile.CatalogSource(s.Catalog())}
		if !skipIndexVerify {
			db, err := database.Connect(rt.cfg.Database)
			if err != nil {
				return fmt.Errorf("database connection required (or pass --skip-index): %w", err)
			}
			spec.Index = index.NewService(db, rt.logger.Named("index")).Entries
		}
		if !skipStoreVerify {
			client, err := storage.NewClient(rt.cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			pub := publish.NewService(client, rt.cfg.Storage.Bucket, rt.cfg.Storage.Prefix, s.Catalog(), rt.logger.Named("publish"))
			spec.Storage = pub.Entries
		}

		results, err := reconcile.New(spec).All(ctx)
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		summary := reconcile.Summarize(results)
		out := cmd.OutOrStdout()

		if jsonVerify {
			var drift []reconcile.Result
			for _, r := range results {
				if !r.InSync() {
					drift = append(drift, r)
				}
			}
			data, err := json.MarshalIndent(drift, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintln(out, "=== Asset Verification ===")
			fmt.Fprintf(out, "Total Paths: %d\n", summary.Total)
			fmt.Fprintf(out, "In Sync: %d\n", summary.InSync)
			fmt.Fprintf(out, "Index Missing: %d\n", summary.MissingIndex)
			fmt.Fprintf(out, "Storage Missing: %d\n", summary.MissingStorage)
			fmt.Fprintf(out, "Orphaned: %d\n", summary.Orphaned)
			fmt.Fprintf(out, "Mismatch: %d\n", summary.Mismatches)
			fmt.Fprintf(out, "Execution Time: %s\n", time.Since(startTime))
		}

		rt.logger.Info("Verification completed",
			zap.Int("total", summary.Total),
			zap.Int("in_sync", summary.InSync),
			zap.Int("missing_index", summary.MissingIndex),
			zap.Int("missing_storage", summary.MissingStorage),
			zap.Int("orphaned", summary.Orphaned),
			zap.Int("mismatch", summary.Mismatches),
		)
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&jsonVerify, "json", false, "Print drifting paths as JSON")
	verifyCmd.Flags().BoolVar(&skipIndexVerify, "skip-index", false, "Do not compare against the SQL index")
	verifyCmd.Flags().BoolVar(&skipStoreVerify, "skip-storage", false, "Do not compare against object storage")
	RootCmd.AddCommand(verifyCmd)
}
