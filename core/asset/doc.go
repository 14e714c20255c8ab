// Package asset defines the identity and capability contract shared by every
// content type handled by the catalog, registry and loader.
//
// # Identity
//
// An ID is a 64-bit value minted once per content item. IDs are either read
// back from the identity field embedded in an asset's own file or minted
// fresh with NewID. Zero is reserved and means "no asset".
//
// # Capabilities
//
// Content types implement the Asset interface. There is no base class: a
// type usually embeds Base to get identity, naming and flag bookkeeping, and
// supplies its own Type, SaveToFile and Metadata.
//
//	type Mesh struct {
//	    asset.Base
//	    Vertices int
//	}
//
//	func (m *Mesh) Type() asset.Type { return asset.TypeMesh }
//
// # Inspection
//
// The catalog never decodes a full asset. It relies on an Inspector per
// content type to pull the embedded identity and the list of referenced IDs
// out of a file.
//
// # Paths
//
// NormalizePath produces the key used by the catalog and registry path
// indices: absolute, cleaned, forward slashes, case-folded on
// case-insensitive platforms.
package asset
