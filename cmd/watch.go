package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-core/core/registry"
	"asset-core/core/session"
	"asset-core/core/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the catalog current while files change",
	Long: `Opens the project and ticks the session so modified assets are detected
and hot reloaded. File system events trigger an immediate check; added or
removed files trigger a rescan. The periodic check runs regardless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := rt.openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		s.Registry().OnReload(func(ev registry.ReloadEvent) {
			if ev.Err != nil {
				rt.logger.Warn("Reload failed", zap.Stringer("id", ev.ID), zap.String("path", ev.Path), zap.Error(ev.Err))
				return
			}
			rt.logger.Info("Asset reloaded", zap.Stringer("id", ev.ID), zap.String("path", ev.Path))
		})

		nudges := make(chan []string, 1)
		if rt.cfg.Watch.Enabled {
			w, err := watch.New(s.Catalog().AssetsFolder(), rt.cfg.Watch, func(paths []string) {
				select {
				case nudges <- paths:
				default:
					// A check is already queued and will see these changes too.
				}
			}, rt.logger.Named("watch"))
			if err != nil {
				return err
			}
			w.Start()
			defer w.Stop()
		}

		rt.logger.Info("Watching project", zap.String("root", s.Catalog().Root()))
		drive(ctx, s, rt.cfg.Server.TickInterval, nudges, rt.logger)
		return nil
	},
}

// drive ticks the session until ctx ends. Nudged paths force an immediate
// check, or a rescan when the set of files changed.
func drive(ctx context.Context, s *session.Session, interval time.Duration, nudges <-chan []string, logger *zap.Logger) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now.Sub(last))
			last = now
		case paths := <-nudges:
			if filesAddedOrRemoved(s, paths) {
				cat := s.Catalog()
				cat.ScanAssets()
				if err := cat.Save(); err != nil {
					logger.Warn("Rescanned catalog not persisted", zap.Error(err))
				}
				logger.Info("Catalog rescanned", zap.Int("assets", cat.Count()))
			}
			s.Check()
		}
	}
}

func filesAddedOrRemoved(s *session.Session, paths []string) bool {
	for _, p := range paths {
		_, known := s.Catalog().GetByPath(p)
		_, statErr := os.Stat(p)
		if known == (statErr != nil) {
			return true
		}
	}
	return false
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
