package recognize

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EverettNC/ALPHAWOLF-sub001/listen"
	"go.uber.org/zap"
)

// MicConfig tunes the microphone-backed session.
type MicConfig struct {
	// Window is the capture slice length fed to interim recognition.
	Window time.Duration
	// MaxEmptyWindows is the no-speech timeout, counted in silent windows.
	MaxEmptyWindows int
	// Microphone selects a capture device by name, empty for the default.
	Microphone string
}

func (c MicConfig) withDefaults() MicConfig {
	if c.Window <= 0 {
		c.Window = 500 * time.Millisecond
	}
	if c.MaxEmptyWindows <= 0 {
		c.MaxEmptyWindows = 20
	}
	return c
}

// MicSource is the production Source: it captures audio windows from the
// microphone, emits an interim result per voiced window, and ends the session
// after recognizing one full utterance or timing out on silence.
type MicSource struct {
	ctx context.Context
	rec Recognizer
	cfg MicConfig
	log *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

func NewMicSource(ctx context.Context, rec Recognizer) *MicSource {
	return &MicSource{
		ctx: ctx,
		rec: rec,
		cfg: MicConfig{}.withDefaults(),
		log: zap.NewNop(),
	}
}

func (m *MicSource) SetConfig(cfg MicConfig) {
	m.cfg = cfg.withDefaults()
}

func (m *MicSource) SetLogger(log *zap.Logger) {
	m.log = log
}

func (m *MicSource) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *MicSource) Start(h Handler) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrBusy
	}

	l := listen.New(m.cfg.Window)
	l.SetLogger(m.log)
	if m.cfg.Microphone != "" {
		if err := l.SetMicrophone(m.cfg.Microphone); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrNotAllowed, err)
		}
	}

	ctx, cancel := context.WithCancel(m.ctx)
	if err := l.Start(ctx); err != nil {
		cancel()
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrNotAllowed, err)
	}

	m.running = true
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(ctx, l, h)

	return nil
}

func (m *MicSource) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *MicSource) run(ctx context.Context, l *listen.Listener, h Handler) {
	var windows [][]byte
	empty := 0

	finish := func(err error) {
		l.Stop()
		m.mu.Lock()
		m.running = false
		cancel := m.cancel
		m.cancel = nil
		m.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		h.end(err)
	}

	for {
		select {
		case <-ctx.Done():
			finish(nil)
			return

		case w := <-l.WavCh:
			silent, err := listen.IsWavSilent(w)
			if err != nil {
				m.log.Error("inspect window", zap.Error(err))
				continue
			}

			if !silent {
				windows = append(windows, w)
				empty = 0
				if txt, rerr := m.rec.Recognize(w); rerr == nil && txt != "" {
					h.result(Result{Text: txt})
				}
				continue
			}

			if len(windows) > 0 {
				txt, rerr := m.recognizeUtterance(windows)
				if rerr != nil {
					finish(fmt.Errorf("recognize utterance: %w", rerr))
					return
				}
				if txt != "" {
					h.result(Result{Text: txt, Final: true})
				}
				finish(nil)
				return
			}

			empty++
			if empty >= m.cfg.MaxEmptyWindows {
				finish(ErrNoSpeech)
				return
			}
		}
	}
}

func (m *MicSource) recognizeUtterance(windows [][]byte) (string, error) {
	buf := windows[0]
	for _, next := range windows[1:] {
		joined, err := listen.ConcatWav(buf, next)
		if err != nil {
			return "", err
		}
		buf = joined
	}
	return m.rec.Recognize(buf)
}
