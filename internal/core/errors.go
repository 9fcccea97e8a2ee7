package core

import "errors"

// Engine errors. All are local and non-fatal: the operation that returns one
// has not changed any state. Callers match them with errors.Is; the returned
// error usually wraps the sentinel with the offending id or key.
var (
	ErrRowNotFound       = errors.New("row not found")
	ErrFieldNotFound     = errors.New("field not found")
	ErrProtectedColumn   = errors.New("protected column")
	ErrDuplicateFieldKey = errors.New("duplicate field key")
	ErrInvalidLabel      = errors.New("invalid column label")
	ErrNoActiveEdit      = errors.New("no active edit")
	ErrInvalidFilterExpr = errors.New("invalid filter expression")
	ErrUnknownMenuAction = errors.New("unknown menu action")
	ErrIndexOutOfRange   = errors.New("index out of range")
)
