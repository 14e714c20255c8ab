package registry

import "time"

// DefaultCheckInterval is used when Config.CheckInterval is not positive.
const DefaultCheckInterval = time.Second

// Config holds configuration for the registry.
type Config struct {
	// CheckInterval is how much Update time must elapse between checks of watched files.
	CheckInterval time.Duration `mapstructure:"check_interval" default:"1s"`
}
