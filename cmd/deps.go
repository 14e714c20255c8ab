package cmd

import (
	"fmt"
	"io"

	"asset-core/core/asset"
	"asset-core/core/catalog"

	"github.com/spf13/cobra"
)

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps <id|path>",
	Short: "Show an asset's dependencies and dependents",
	Args:  cobra.ExactArgs(1),
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
		rec, ok := lookup(cat, args[0])
		if !ok {
			return fmt.Errorf("%s: %w", args[0], asset.ErrNotFound)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s)\n", rec.ID, rec.RelativePath, rec.Type)
		printEdges(out, cat, "Dependencies", cat.Dependencies(rec.ID))
		printEdges(out, cat, "Dependents", cat.Dependents(rec.ID))
		return nil
	},
}

func lookup(cat *catalog.Catalog, arg string) (catalog.Record, bool) {
	if id, err := asset.ParseID(arg); err == nil {
		if rec, ok := cat.Get(id); ok {
			return rec, true
		}
	}
	return cat.GetByPath(arg)
}

func printEdges(out io.Writer, cat *catalog.Catalog, title string, ids []asset.ID) {
	fmt.Fprintf(out, "%s: %d\n", title, len(ids))
	for _, id := range ids {
		if rec, ok := cat.Get(id); ok {
			fmt.Fprintf(out, "  %s %s\n", id, rec.RelativePath)
		} else {
			fmt.Fprintf(out, "  %s (not in catalog)\n", id)
		}
	}
}

func init() {
	RootCmd.AddCommand(depsCmd)
}
