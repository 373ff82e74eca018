package game

import "errors"

var (
	ErrUnknownScenario = errors.New("scenario not found")
	ErrInvalidOption   = errors.New("option index out of range")
	ErrGameOver        = errors.New("game already completed")
)
