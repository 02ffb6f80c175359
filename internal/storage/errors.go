package storage

import "errors"

// Sentinel errors for the storage layer.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
