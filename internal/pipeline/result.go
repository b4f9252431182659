package pipeline

import (
	"time"

	"dice-reader/internal/dice"
)

// Run is one settled interval and the dice read from it.
type Run struct {
	Start int // First annotated frame index
	End   int // Last annotated frame index
	Dice  []dice.Die
}

// Result summarizes one processed video.
type Result struct {
	Input       string
	Output      string // Empty when no video was written
	Still       string // Empty when no still was written
	Strategy    string
	Frames      int // Frames written to Output
	Runs        []Run
	OutputBytes int64
	Elapsed     time.Duration
	Err         error
}

// Dice returns the dice of every run in order.
func (r Result) Dice() []dice.Die {
	var all []dice.Die
	for _, run := range r.Runs {
		all = append(all, run.Dice...)
	}
	return all
}

// OK reports whether the video was processed without error.
func (r Result) OK() bool {
	return r.Err == nil
}
