package types

import "errors"

// Archive lifecycle errors.
var (
	ErrArchiveDetached = errors.New("archive is detached")
	ErrAlreadyAttached = errors.New("archive is already attached")
)

// Lookup and argument errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidID    = errors.New("invalid identifier")
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidKind  = errors.New("invalid entry kind")
	ErrInvalidSlot  = errors.New("invalid slot")
	ErrInvalidEvent = errors.New("invalid event")
)
