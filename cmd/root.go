package cmd

import (
	"fmt"
	"os"

	"asset-core/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir   string
	projectRoot string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "asset-core",
	Short: "Project asset catalog and cache tooling",
	Long: `asset-core maintains a project's asset catalog: stable IDs, dependency
edges and change detection. It can watch a project, serve a read-only API
over it, publish it to object storage and mirror it into SQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config gives ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
	RootCmd.PersistentFlags().StringVar(&projectRoot, "root", "", "Project root (overrides PROJECT_ROOT)")
}
