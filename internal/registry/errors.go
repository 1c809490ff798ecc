package registry

import "errors"

// ErrNotFound is returned when a relation names an unknown entity.
var ErrNotFound = errors.New("not found")
