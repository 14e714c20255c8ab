package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"asset-core/core/feature"
	"asset-core/core/logger"
	"asset-core/core/middleware/auth"
	"asset-core/core/middleware/rayid"
	"asset-core/feature/browser"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser API over an open project",
	Long:  `Opens the project, keeps it current like the watch command and serves the browser API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()
		logg := rt.logger

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		m := rt.collector()
		s, err := rt.openSession(ctx, m)
		if err != nil {
			return err
		}
		defer s.Close()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := feature.NewManager(logg)
		mgr.Register(browser.NewFeature(s, m, logg.Named("browser")))

		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Prometheus scrapers usually carry no API key.
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/metrics"}}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		driven := make(chan struct{})
		go func() {
			drive(ctx, s, rt.cfg.Server.TickInterval, nil, logg)
			close(driven)
		}()
		// The session is closed only after the tick loop stopped.
		defer func() {
			stop()
			<-driven
		}()

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", rt.cfg.Server.Address()), zap.Bool("auth", rt.cfg.Server.AuthEnabled()))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
