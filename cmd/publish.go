package cmd

import (
	"fmt"

	"asset-core/core/storage"
	"asset-core/feature/publish"

	"github.com/spf13/cobra"
)

var (
	dryRunPublish bool
	prunePublish  bool
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the catalog and changed assets to object storage",
	Long: `Compares the catalog with the objects under the configured storage prefix,
uploads missing or changed assets followed by the catalog file, and with
--prune removes objects no longer in the catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		client, err := storage.NewClient(rt.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		s, err := rt.openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := publish.NewService(client, rt.cfg.Storage.Bucket, rt.cfg.Storage.Prefix, s.Catalog(), rt.logger.Named("publish"))
		plan, err := svc.Plan(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Up to date: %d\n", plan.UpToDate)
		fmt.Fprintf(out, "Uploads: %d\n", len(plan.Uploads))
		for _, up := range plan.Uploads {
			fmt.Fprintf(out, "  %-8s %s\n", up.Reason, up.Key)
		}
		fmt.Fprintf(out, "Orphans: %d\n", len(plan.Orphans))
		for _, key := range plan.Orphans {
			fmt.Fprintf(out, "  %s\n", key)
		}

		if dryRunPublish {
			return nil
		}
		res, err := svc.Push(ctx, plan, prunePublish)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Uploaded %d objects, removed %d\n", res.Uploaded, res.Removed)
		return nil
	},
}

func init() {
	publishCmd.Flags().BoolVar(&dryRunPublish, "dry-run", false, "Only print the plan")
	publishCmd.Flags().BoolVar(&prunePublish, "prune", false, "Remove remote objects no longer in the catalog")
	RootCmd.AddCommand(publishCmd)
}
