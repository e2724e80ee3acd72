// Package recognize abstracts the platform speech recognizer as restartable
// sessions that report transcripts through callbacks.
package recognize

import "errors"

var (
	// ErrBusy means a session start raced an already-running session.
	ErrBusy = errors.New("recognition session already running")
	// ErrNoSpeech is the session timing out without hearing anything.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrNotAllowed means the capture device could not be opened.
	ErrNotAllowed = errors.New("microphone access not allowed")
)

// Recoverable reports whether the listening loop may automatically start a
// new session after err ended the previous one. Only a denied or missing
// capture device suspends the loop.
func Recoverable(err error) bool {
	if err == nil {
		return true
	}
	return !errors.Is(err, ErrNotAllowed)
}

// Result is one recognizer hypothesis. Non-final results are interim partials
// and are observational only.
type Result struct {
	Text  string
	Final bool
}

// Handler receives the events of one session. OnEnd is called exactly once,
// with nil after a natural end.
type Handler struct {
	OnResult func(Result)
	OnEnd    func(err error)
}

func (h Handler) result(r Result) {
	if h.OnResult != nil {
		h.OnResult(r)
	}
}

func (h Handler) end(err error) {
	if h.OnEnd != nil {
		h.OnEnd(err)
	}
}

// Source owns at most one recognition session at a time.
type Source interface {
	// Start begins a session delivering events to h. Returns ErrBusy when a
	// session is already running.
	Start(h Handler) error
	// Stop cancels the running session. Safe to call when idle.
	Stop()
	// Running reports whether a session is active.
	Running() bool
}

// Recognizer converts one WAV utterance into text.
type Recognizer interface {
	Recognize(wav []byte) (string, error)
}
