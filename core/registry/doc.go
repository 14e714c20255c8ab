// Package registry is the in-memory cache of loaded, typed assets.
//
// Entries are indexed by asset ID and by normalized file path, carry a
// metadata snapshot, and, when backed by a file, a watch entry used to
// detect external edits.
//
// # Ownership
//
// The cache holds weak pointers. Callers of Load, Get or Register receive
// strong pointers and keep the asset alive for as long as they hold them.
// Once every external holder has dropped its pointer the garbage collector
// may reclaim the asset; ClearUnused then sweeps the expired entries. A
// live external reference always prevents eviction.
//
// # Typed access
//
// Go methods cannot be generic, so typed access goes through package
// functions parameterized by the content struct:
//
//	mesh, err := registry.Load[content.Mesh](reg, "Assets/cube.lumesh")
//	if errors.Is(err, asset.ErrTypeMismatch) {
//	    // the path is cached as another type
//	}
//
// # Hot reload
//
// Update accumulates elapsed time and, once CheckInterval has passed,
// compares every watch entry with the file on disk. Each changed asset is
// reloaded exactly once: the entry is rebuilt through the factory
// registered for its type, or simply evicted when there is none. OnReload
// subscribers are notified after the registry lock has been released, so
// they may call back into the registry freely.
package registry
