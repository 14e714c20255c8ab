package metrics

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled toggles the collector and the /metrics endpoint.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"asset_core"`
}
