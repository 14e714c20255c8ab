package asset

import "strings"

// Flags is the per-asset state bit set.
type Flags uint8

const (
	// FlagDirty marks unsaved changes.
	FlagDirty Flags = 1 << iota
	// FlagLoaded marks runtime data as present.
	FlagLoaded
	// FlagReadOnly forbids saving.
	FlagReadOnly
	// FlagEmbedded marks an asset stored inside another file.
	FlagEmbedded
	// FlagProcedural marks an asset generated at runtime.
	FlagProcedural
)

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	for _, p := range []struct {
		flag Flags
		name string
	}{
		{FlagDirty, "Dirty"},
		{FlagLoaded, "Loaded"},
		{FlagReadOnly, "ReadOnly"},
		{FlagEmbedded, "Embedded"},
		{FlagProcedural, "Procedural"},
	} {
		if f.Has(p.flag) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}
