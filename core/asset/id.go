package asset

import (
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
)

// ID identifies a content item within a project.
type ID uint64

// NoID is the zero ID.
const NoID ID = 0

// NewID mints a random, non-zero ID.
func NewID() ID {
	for {
		u := uuid.New()
		if id := ID(binary.BigEndian.Uint64(u[:8])); id != NoID {
			return id
		}
	}
}

// IsValid reports whether the ID is set.
func (id ID) IsValid() bool {
	return id != NoID
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a decimal ID.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NoID, err
	}
	return ID(v), nil
}
