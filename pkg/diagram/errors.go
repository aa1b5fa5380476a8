package diagram

import "errors"

var (
	ErrUnknownNode       = errors.New("unknown node")
	ErrUnknownToken      = errors.New("unknown token")
	ErrUnknownTransition = errors.New("unknown transition")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrDuplicateSymbol   = errors.New("symbol already in use")
	ErrDuplicateLabel    = errors.New("duplicate state label")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
)
