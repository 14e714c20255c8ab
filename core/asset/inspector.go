package asset

// Header is what the catalog needs from a file without decoding the asset:
// its embedded identity, if any, and the IDs it references.
type Header struct {
	// ID is NoID when the format carries no embedded identity.
	ID           ID
	Dependencies []ID
}

// Inspector extracts a Header from a file of one content type.
type Inspector interface {
	Type() Type
	Inspect(path string) (Header, error)
}

// Inspectors is a lookup of inspectors keyed by type.
type Inspectors map[Type]Inspector

// NewInspectors indexes the given inspectors by type. Later entries win.
func NewInspectors(list ...Inspector) Inspectors {
	out := make(Inspectors, len(list))
	for _, in := range list {
		out[in.Type()] = in
	}
	return out
}

// For returns the inspector for t, or nil.
func (s Inspectors) For(t Type) Inspector {
	if s == nil {
		return nil
	}
	return s[t]
}
