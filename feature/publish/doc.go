// Package publish mirrors a project's catalog and asset files into object
// storage.
//
// Plan compares the catalog with the objects under the configured prefix
// and classifies every file as missing remotely, changed in size, or
// orphaned (present remotely but no longer in the catalog). Push uploads
// the catalog file plus every missing or changed asset, and optionally
// removes orphans.
//
// Object keys are laid out as
//
//	<prefix>/<catalog file>
//	<prefix>/assets/<relative asset path>
package publish
