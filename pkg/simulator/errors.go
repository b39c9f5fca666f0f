package simulator

import "errors"

var (
	ErrInvalidRoster     = errors.New("no competitors provided for race simulation")
	ErrInvalidTimeFormat = errors.New("invalid time format")
)
