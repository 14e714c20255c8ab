package registry

import "errors"

var (
	// ErrNoFactory is returned when no factory is registered for a content type.
	ErrNoFactory = errors.New("no factory registered")
	// ErrNoID is returned when an asset has no ID and none can be assigned.
	ErrNoID = errors.New("asset has no id")
)
