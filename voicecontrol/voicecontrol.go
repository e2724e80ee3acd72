// Package voicecontrol turns the always-on microphone into wake-word-gated
// commands while coexisting with the controller's own speech output.
package voicecontrol

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/EverettNC/ALPHAWOLF-sub001/recognize"
	"github.com/EverettNC/ALPHAWOLF-sub001/speech"
	"go.uber.org/zap"
)

var (
	ErrUnsupported   = errors.New("speech recognition is not available")
	ErrNoSynthesizer = errors.New("speech synthesis is not available")
	ErrSpeaking      = errors.New("already speaking")
)

// Config collects the per-instance controller switches.
type Config struct {
	WakePrefix          string
	ContinuousListening bool
	AutoStart           bool
	Language            string

	// RestartDelay spaces session restarts so an immediately re-ending
	// platform session cannot busy-loop.
	RestartDelay time.Duration
	// ResumeDelay lets audio hardware settle after speech output before
	// listening resumes.
	ResumeDelay time.Duration
	// FuzzyFallback is the minimum token-set score for the fuzzy dispatch
	// stage after an exact and substring miss. 0 disables the stage.
	FuzzyFallback int
}

func (c Config) withDefaults() Config {
	// transcripts are matched lower-cased, the prefix has to be too
	c.WakePrefix = strings.ToLower(strings.TrimSpace(c.WakePrefix))
	if c.WakePrefix == "" {
		c.WakePrefix = "alpha"
	}
	if c.RestartDelay <= 0 {
		c.RestartDelay = 300 * time.Millisecond
	}
	if c.ResumeDelay <= 0 {
		c.ResumeDelay = 250 * time.Millisecond
	}
	return c
}

// CommandFunc is a zero-argument handler bound to a command phrase.
type CommandFunc func()

type command struct {
	phrase  string
	handler CommandFunc
}

// Notifier is the external toast/feedback surface. Calls never block.
type Notifier interface {
	Notify(message string, kind string)
}

// MuteStore persists the mute preference across sessions.
type MuteStore interface {
	Muted() bool
	SetMuted(bool) error
}

// PlayFunc plays synthesized audio bytes, blocking until done.
type PlayFunc func(ctx context.Context, b []byte) error

// Controller owns the recognition loop, the command dispatcher, and the
// speech output coordinator of one device. All state lives on the instance;
// independent controllers do not share anything.
type Controller struct {
	ctx context.Context
	log *zap.Logger

	source   recognize.Source
	synth    speech.Synthesizer
	play     PlayFunc
	notifier Notifier
	store    MuteStore

	mu        sync.Mutex
	cfg       Config
	state     State
	muted     bool
	suspended bool // explicit stop or dead microphone, no auto-restart
	retried   bool
	restart   *time.Timer
	commands  []*command
	lastHeard string
	observer  func(text string, final bool)
}

func New(ctx context.Context) *Controller {
	return &Controller{
		ctx:       ctx,
		log:       zap.NewNop(),
		cfg:       Config{}.withDefaults(),
		state:     StateIdle,
		suspended: true,
	}
}

func (c *Controller) SetLogger(log *zap.Logger) {
	c.log = log
}

func (c *Controller) SetConfig(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg.withDefaults()
}

func (c *Controller) SetSource(src recognize.Source) {
	c.source = src
}

func (c *Controller) SetSynthesizer(s speech.Synthesizer) {
	c.synth = s
}

func (c *Controller) SetPlayer(p PlayFunc) {
	c.play = p
}

func (c *Controller) SetNotifier(n Notifier) {
	c.notifier = n
}

func (c *Controller) SetMuteStore(s MuteStore) {
	c.store = s
}

// SetObserver installs the "last heard" display callback. It receives every
// transcript, interim ones included.
func (c *Controller) SetObserver(fn func(text string, final bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *Controller) LastHeard() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHeard
}

// Init verifies the recognition source is present, loads the persisted mute
// preference, and starts listening when configured to. Absent speech support
// is fatal for the controller: it notifies once and gives up.
func (c *Controller) Init() error {
	c.mu.Lock()
	if c.source == nil {
		c.mu.Unlock()
		c.notify("voice control is not available on this device", "error")
		return ErrUnsupported
	}
	if c.store != nil && c.store.Muted() {
		c.muted = true
		c.state = StateMuted
	}
	auto := c.cfg.AutoStart
	muted := c.muted
	c.mu.Unlock()

	if auto && !muted {
		return c.Start()
	}
	return nil
}

// Start begins listening. It is idempotent: starting while already listening
// or while muted is a no-op.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.source == nil {
		c.mu.Unlock()
		return ErrUnsupported
	}
	next, ok := transition(c.state, eventStart, c.muted)
	if !ok {
		state := c.state
		c.mu.Unlock()
		c.log.Debug("start ignored", zap.String("state", state.String()))
		return nil
	}
	c.cancelRestartLocked()
	c.suspended = false
	c.state = next
	src := c.source
	c.mu.Unlock()

	err := src.Start(recognize.Handler{OnResult: c.onResult, OnEnd: c.onEnd})
	if err == nil {
		c.mu.Lock()
		c.retried = false
		// a Speak, Mute, or Stop may have landed while the device was
		// opening; their src.Stop() hit a not-yet-running source, so the
		// session must be torn down here instead of going live
		if c.state != StateListening {
			c.mu.Unlock()
			src.Stop()
			c.log.Debug("listening superseded during start")
			return nil
		}
		c.mu.Unlock()
		c.log.Info("listening")
		return nil
	}

	c.mu.Lock()
	if c.state == StateListening {
		c.state = StateIdle
	}
	if errors.Is(err, recognize.ErrBusy) && !c.retried {
		c.retried = true
		delay := c.cfg.RestartDelay
		c.mu.Unlock()
		src.Stop()
		c.log.Warn("recognizer busy, retrying once", zap.Error(err))
		c.scheduleRestart(delay)
		return nil
	}
	c.retried = false
	c.suspended = true
	c.mu.Unlock()

	c.log.Error("start recognition", zap.Error(err))
	c.notify("voice recognition could not start: "+err.Error(), "error")
	return err
}

// Stop ends listening and suspends automatic restarts until the next
// explicit Start or Unmute. Safe to call from any state.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.cancelRestartLocked()
	c.suspended = true
	if next, ok := transition(c.state, eventStop, c.muted); ok {
		c.state = next
	}
	src := c.source
	c.mu.Unlock()

	if src != nil {
		src.Stop()
	}
	c.log.Info("stopped listening")
}

// Toggle flips between listening and stopped.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	listening := c.state == StateListening || c.restart != nil
	c.mu.Unlock()

	if listening {
		c.Stop()
		return nil
	}
	return c.Start()
}

// Mute stops listening and persists the preference. It cancels any pending
// restart: a mute always wins that race.
func (c *Controller) Mute() {
	c.mu.Lock()
	if c.muted {
		c.mu.Unlock()
		return
	}
	c.muted = true
	c.cancelRestartLocked()
	if next, ok := transition(c.state, eventMute, true); ok {
		c.state = next
	}
	src := c.source
	store := c.store
	c.mu.Unlock()

	if src != nil {
		src.Stop()
	}
	if store != nil {
		if err := store.SetMuted(true); err != nil {
			c.log.Error("persist mute preference", zap.Error(err))
		}
	}
	c.log.Info("muted")
}

// Unmute clears the mute preference and starts listening, subject to the
// same guards as Start.
func (c *Controller) Unmute() error {
	c.mu.Lock()
	was := c.muted
	c.muted = false
	if next, ok := transition(c.state, eventUnmute, false); ok {
		c.state = next
	}
	store := c.store
	c.mu.Unlock()

	if store != nil && was {
		if err := store.SetMuted(false); err != nil {
			c.log.Error("persist mute preference", zap.Error(err))
		}
	}
	c.log.Info("unmuted")
	return c.Start()
}

// ToggleMute flips the mute preference.
func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	muted := c.muted
	c.mu.Unlock()

	if muted {
		return c.Unmute()
	}
	c.Mute()
	return nil
}

// Close stops everything. The controller is not reusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelRestartLocked()
	c.suspended = true
	if c.state == StateListening {
		c.state = StateIdle
	}
	src := c.source
	c.mu.Unlock()

	if src != nil {
		src.Stop()
	}
}

// onEnd handles the recognizer session ending for any reason. Deliberate
// stops (speaking, muting, explicit Stop) have already moved the state away
// from Listening and are ignored here.
func (c *Controller) onEnd(err error) {
	c.mu.Lock()
	next, ok := transition(c.state, eventEnd, c.muted)
	if !ok {
		c.mu.Unlock()
		return
	}
	c.state = next
	recoverable := recognize.Recoverable(err)
	if !recoverable {
		c.suspended = true
	}
	restart := recoverable && c.cfg.ContinuousListening && !c.muted && !c.suspended
	delay := c.cfg.RestartDelay
	c.mu.Unlock()

	if !recoverable {
		c.log.Error("recognition ended", zap.Error(err))
		c.notify("microphone unavailable: "+err.Error(), "error")
		return
	}
	if err != nil {
		c.log.Debug("recognition ended", zap.Error(err))
	}
	if restart {
		c.scheduleRestart(delay)
	}
}

// scheduleRestart arms a single restart timer. The timer re-checks mute and
// suspension when it fires, not only here: a mute racing a pending restart
// must win.
func (c *Controller) scheduleRestart(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restart != nil {
		return
	}
	c.restart = time.AfterFunc(d, func() {
		c.mu.Lock()
		c.restart = nil
		if c.muted || c.suspended || c.state != StateIdle {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		if err := c.Start(); err != nil {
			c.log.Error("restart listening", zap.Error(err))
		}
	})
}

func (c *Controller) cancelRestartLocked() {
	if c.restart != nil {
		c.restart.Stop()
		c.restart = nil
	}
}

func (c *Controller) notify(message, kind string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(message, kind)
}
