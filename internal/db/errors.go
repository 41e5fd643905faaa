package db

import "errors"

// ErrKeyNotFound signals a missing key. Backends map their native "nil
// reply" onto this sentinel so callers never import driver packages.
var ErrKeyNotFound = errors.New("key not found")
