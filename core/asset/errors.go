package asset

import "errors"

var (
	// ErrNotFound is returned when a file, record or cached asset does not exist.
	ErrNotFound = errors.New("asset not found")
	// ErrParse is returned for malformed or unsupported documents.
	ErrParse = errors.New("asset parse error")
	// ErrTypeMismatch is returned when a cached asset is not of the requested type.
	ErrTypeMismatch = errors.New("asset type mismatch")
	// ErrIO is returned when reading or writing a file fails.
	ErrIO = errors.New("asset io error")
	// ErrNoPathSet is returned when saving an asset that has no file path.
	ErrNoPathSet = errors.New("asset has no path set")
	// ErrReadOnly is returned when saving an asset flagged read-only.
	ErrReadOnly = errors.New("asset is read-only")
)
