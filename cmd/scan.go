package cmd

import (
	"fmt"

	"asset-core/core/asset"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rescan bool

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Build or refresh the project catalog",
	Long: `Opens the project, creating the catalog file from a full scan when it
does not exist yet. With --rescan the assets folder is scanned again even
when a catalog file is present.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		s, err := rt.openSession(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cat := s.Catalog()
		if rescan {
			cat.ScanAssets()
			if err := cat.Save(); err != nil {
				return fmt.Errorf("failed to save catalog: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Catalog: %s\n", cat.FilePath())
		fmt.Fprintf(out, "Assets: %d\n", cat.Count())
		for _, t := range asset.Types() {
			if n := cat.CountByType(t); n > 0 {
				fmt.Fprintf(out, "  %-10s %d\n", t.String(), n)
			}
		}

		rt.logger.Info("Catalog ready", zap.Int("assets", cat.Count()), zap.Bool("rescan", rescan))
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&rescan, "rescan", false, "Scan the assets folder even if a catalog exists")
	RootCmd.AddCommand(scanCmd)
}
