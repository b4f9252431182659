package pipeline

import "errors"

var (
	// ErrNoDice is returned when localization finds no die in any settled frame.
	ErrNoDice = errors.New("no dice detected")
	// ErrBusy is returned when another run holds the output directory lock.
	ErrBusy = errors.New("output directory locked by another run")
	// ErrOverwrite is returned when the output path resolves to the input itself.
	ErrOverwrite = errors.New("output would overwrite input")
)
