package voicecontrol

import (
	"github.com/EverettNC/ALPHAWOLF-sub001/speech"
	"go.uber.org/zap"
)

// Speak voices text with default synthesis options.
func (c *Controller) Speak(text string) error {
	return c.SpeakOptions(text, speech.Options{})
}

// SpeakOptions voices text, guaranteeing the recognizer never captures the
// controller's own output: recognition is stopped before synthesis starts
// and resumes, when continuous listening applies, only after playback ends.
// It blocks until playback completes.
func (c *Controller) SpeakOptions(text string, opts speech.Options) error {
	c.mu.Lock()
	if c.synth == nil || c.play == nil {
		c.mu.Unlock()
		return ErrNoSynthesizer
	}
	next, ok := transition(c.state, eventSpeak, c.muted)
	if !ok {
		c.mu.Unlock()
		return ErrSpeaking
	}
	c.cancelRestartLocked()
	c.state = next
	src := c.source
	synth := c.synth
	play := c.play
	lang := c.cfg.Language
	c.mu.Unlock()

	// recognition must be down before any audio leaves the speaker
	if src != nil {
		src.Stop()
	}

	b, err := synth.Synthesize(c.ctx, speech.Request{Text: text, Language: lang, Options: opts})
	if err == nil {
		err = play(c.ctx, b)
	}
	if err != nil {
		// a synthesis failure still counts as completion, the controller
		// must never wedge in Speaking
		c.log.Error("speak", zap.Error(err))
	} else {
		c.log.Debug("spoke", zap.String("text", text))
	}

	c.finishSpeaking()
	return err
}

func (c *Controller) finishSpeaking() {
	c.mu.Lock()
	next, ok := transition(c.state, eventSpoken, c.muted)
	if !ok {
		c.mu.Unlock()
		return
	}
	c.state = next
	resume := c.cfg.ContinuousListening && !c.muted && !c.suspended
	delay := c.cfg.ResumeDelay
	c.mu.Unlock()

	if resume {
		c.scheduleRestart(delay)
	}
}
