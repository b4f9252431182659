package motion

// WindowParams configures the sliding-window search.
type WindowParams struct {
	Size int // Number of consecutive movement scores per window
}

// DefaultWindowParams returns the four-score window.
func DefaultWindowParams() WindowParams {
	return WindowParams{Size: 4}
}

// BufferParams configures the streaming state machine.
type BufferParams struct {
	DiffThreshold int // Max differing mask pixels for two frames to count as still
	MaxSlack      int // Cap on the flicker budget earned by still frames
	SnapshotAt    int // Buffer length at which the representative mask is taken
	MinSettled    int // A run must hold more than this many frames to be settled
}

// DefaultBufferParams returns thresholds tuned for 1/4-scale masks of HD video.
func DefaultBufferParams() BufferParams {
	return BufferParams{
		DiffThreshold: 50,
		MaxSlack:      5,
		SnapshotAt:    5,
		MinSettled:    10,
	}
}
