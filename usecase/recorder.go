package usecase

// Recorder receives engagement counters. The Prometheus metrics satisfy it.
type Recorder interface {
	FeedSelection(mode string)
	Reaction(kind string)
	Comment()
	EventFailed(driver string)
}

type noopRecorder struct{}

func (noopRecorder) FeedSelection(string) {}
func (noopRecorder) Reaction(string)      {}
func (noopRecorder) Comment()             {}
func (noopRecorder) EventFailed(string)   {}

func recorderOrNoop(r Recorder) Recorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
