package cmd

import (
	"fmt"

	"asset-core/core/database"
	"asset-core/feature/index"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkOnlyIndex bool

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Mirror the catalog into the SQL index",
	Long: `Migrates the index tables, replaces their contents with the catalog's
records and dependency edges, then verifies the table columns. With --check
only the verification runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		db, err := database.Connect(rt.cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}
		svc := index.NewService(db, rt.logger.Named("index"))
		out := cmd.OutOrStdout()

		if !checkOnlyIndex {
			if err := svc.Migrate(ctx); err != nil {
				return err
			}

			s, err := rt.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := svc.Sync(ctx, s.Catalog())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Indexed %d records, %d dependency edges\n", res.Records, res.Edges)
		}

		if err := svc.Check(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Index schema OK")
		rt.logger.Info("Index check passed", zap.String("driver", rt.cfg.Database.Driver))
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&checkOnlyIndex, "check", false, "Only verify the index schema")
	RootCmd.AddCommand(indexCmd)
}
