package session

import (
	"asset-core/core/catalog"
	"asset-core/core/loader"
	"asset-core/core/registry"
)

// Config groups the settings of the components a session owns.
type Config struct {
	Project  catalog.Config  `mapstructure:"project"`
	Registry registry.Config `mapstructure:"registry"`
	Loader   loader.Config   `mapstructure:"loader"`
}
