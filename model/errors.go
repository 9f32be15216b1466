package model

import "github.com/pkg/errors"

var (
	// ErrInvalidDimension is returned when a grid is created with a non-positive width or height.
	ErrInvalidDimension = errors.New("model: grid dimensions must be positive")
	// ErrOutOfRange is returned when a cell is queried outside [0,W)x[0,H).
	ErrOutOfRange = errors.New("model: coordinate out of range")
	// ErrUnknownBorderPolicy is returned by ParseBorderPolicy for unrecognized names.
	ErrUnknownBorderPolicy = errors.New("model: unknown border policy")
)
