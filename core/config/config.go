package config

import (
	"reflect"
	"strings"
	"time"

	"asset-core/core/catalog"
	"asset-core/core/database"
	"asset-core/core/loader"
	"asset-core/core/logger"
	"asset-core/core/metrics"
	"asset-core/core/registry"
	"asset-core/core/server"
	"asset-core/core/session"
	"asset-core/core/storage"
	"asset-core/core/watch"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Project holds the project root, assets folder and catalog file name.
	Project catalog.Config `mapstructure:"project"`
	// Registry holds configuration for the asset cache.
	Registry registry.Config `mapstructure:"registry"`
	// Loader holds configuration for the async loader.
	Loader loader.Config `mapstructure:"loader"`
	// Watch holds configuration for the file system watcher.
	Watch watch.Config `mapstructure:"watch"`
	// Metrics holds configuration for the Prometheus collector.
	Metrics metrics.Config `mapstructure:"metrics"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
}

// Session returns the subset of settings a project session needs.
func (c *Config) Session() session.Config {
	return session.Config{
		Project:  c.Project,
		Registry: c.Registry,
		Loader:   c.Loader,
	}
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. REGISTRY_CHECK_INTERVAL -> registry.check_interval)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct && field.Type != durationType {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
