package pipeline

// Progress receives per-pass frame counts. Implementations need not be
// safe for concurrent use; the runner drives them from one goroutine.
type Progress interface {
	Begin(label string, total int)
	Step()
	End()
}

type nopProgress struct{}

func (nopProgress) Begin(string, int) {}
func (nopProgress) Step()             {}
func (nopProgress) End()              {}
