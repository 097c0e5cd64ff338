package board

import "errors"

// Sentinel errors returned (wrapped) by the parsing and validation functions.
var (
	ErrInvalidFEN      = errors.New("invalid FEN")
	ErrInvalidSquare   = errors.New("invalid square")
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidPosition = errors.New("invalid position")
)
