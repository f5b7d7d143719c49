package domain

import "errors"

// ErrEmptyMonologue is returned when a message cursor is built over zero parts.
var ErrEmptyMonologue = errors.New("monologue has no parts")

// ErrPresetNotFound is returned when a compiled preset cannot be found in the store.
var ErrPresetNotFound = errors.New("preset not found")

// ErrScriptNotFound is returned when a script loader has no script for an ID.
var ErrScriptNotFound = errors.New("script not found")

// ErrUnknownMode is returned when a script names a presentation mode that does not exist.
var ErrUnknownMode = errors.New("unknown mode")
