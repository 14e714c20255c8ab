package watch

import "time"

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 200 * time.Millisecond

// Config holds configuration for the push watcher.
type Config struct {
	// Enabled toggles the watcher in the watch command.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Debounce is the quiet period after the last event before changes are reported.
	Debounce time.Duration `mapstructure:"debounce" default:"200ms"`
}
