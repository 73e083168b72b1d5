package models

import "errors"

// Validation and lookup errors are values, not exceptions: they are
// expected control flow for save/share preconditions and are matched
// with errors.Is at the surface layers.
var (
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrDuplicateTitle = errors.New("a note with this title already exists")
	ErrEmptyContent   = errors.New("cannot share or save an empty note")
	ErrNoteNotFound   = errors.New("note not found")
	ErrNotShared      = errors.New("note is not shared")
	ErrBusy           = errors.New("another operation is in flight")
)
