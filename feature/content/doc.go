// Package content implements the mesh, material and prefab content types.
//
// Each type is a YAML document that embeds its own identity so the catalog
// can recover it without the central catalog file:
//
//	mesh      (.lumesh)    MeshAsset.ID
//	material  (.lumat)     Material.ID
//	prefab    (.luprefab)  Prefab.UUID
//
// Materials depend on the textures bound to their slots. Prefabs depend on
// every asset referenced by their entities' components; references are
// typed {Kind, ID} pairs in a versioned document (Prefab.Version 2).
//
// RegisterFactories installs the loaders into a registry, and Inspectors
// returns the header extractors used by catalog scans.
package content
