// Package catalog maintains the durable, project-wide index of every content
// file on disk and the dependency edges between them.
//
// The catalog answers "what exists and what depends on what" without loading
// any asset into memory. It is built once per project, either by reading the
// persisted catalog file at the project root or by a full scan of the assets
// folder, and kept current through explicit registration and a polling
// modification check.
//
// # Scanning
//
// ScanAssets walks the assets folder recursively. Every regular file whose
// extension maps to a known content type becomes a Record. The embedded
// identity and the dependency list come from the type's asset.Inspector;
// inspection failures are logged and degrade to "no dependencies". Files
// whose format carries no identity keep the ID previously cataloged for the
// same path, or get a freshly minted one.
//
// # Persistence
//
// The catalog file is a YAML document:
//
//	AssetDatabase:
//	  Version: "1.0"
//	  ProjectRoot: /work/game
//	  AssetsFolder: /work/game/Assets
//	Assets:
//	  - UUID: 42
//	    Path: meshes/cube.lumesh
//	    Type: 3
//	    Name: cube
//	    FileSize: 120
//	    Dependencies: [7]
//	    HasThumbnail: false
//
// A missing or unreadable catalog file triggers a full rescan followed by a
// save.
//
// # Dependents
//
// Dependents is the reverse of the dependency relation and is computed by a
// linear scan of all records. Catalogs are small compared to how often they
// are queried, so no reverse index is stored.
package catalog
