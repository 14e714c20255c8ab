// Package config provides configuration management for asset-core.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Project: project root, assets folder and catalog file name
//   - Registry: modification check interval
//   - Loader: worker count, queue size, poll interval
//   - Watch: push watcher toggle and debounce window
//   - Metrics: Prometheus namespace
//   - Server: HTTP server settings (port, API key)
//   - Database: index database connection (mysql or sqlite)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// Environment variables map to nested keys by replacing dots with
// underscores, e.g. LOADER_QUEUE_SIZE sets loader.queue_size.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := session.New(cfg.Session(), logger, nil, content.Inspectors(), content.RegisterFactories)
package config
