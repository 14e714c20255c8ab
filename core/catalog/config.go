package catalog

// Config holds the project layout used by the catalog.
type Config struct {
	// Root is the project root directory; the catalog file lives here.
	Root string `mapstructure:"root" default:"."`
	// AssetsFolder is the folder scanned for content, relative to Root unless absolute.
	AssetsFolder string `mapstructure:"assets_folder" default:"Assets"`
	// FileName is the catalog file name inside Root.
	FileName string `mapstructure:"catalog_file" default:".lnxast"`
}
