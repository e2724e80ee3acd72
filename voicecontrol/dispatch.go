package voicecontrol

import (
	"strings"

	"github.com/EverettNC/ALPHAWOLF-sub001/recognize"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"
)

const responseNotUnderstood = "sorry, i did not catch that command"

// RegisterCommand binds a phrase to a handler. Phrases are matched
// case-insensitively; registering an existing phrase replaces its handler in
// place, keeping the original registration order.
func (c *Controller) RegisterCommand(phrase string, handler CommandFunc) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" || handler == nil {
		c.log.Warn("ignoring empty command registration", zap.String("phrase", phrase))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cmd := range c.commands {
		if cmd.phrase == p {
			cmd.handler = handler
			return
		}
	}
	c.commands = append(c.commands, &command{phrase: p, handler: handler})
}

// Commands returns the registered phrases in registration order.
func (c *Controller) Commands() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.commands))
	for i, cmd := range c.commands {
		out[i] = cmd.phrase
	}
	return out
}

func (c *Controller) onResult(r recognize.Result) {
	c.mu.Lock()
	c.lastHeard = r.Text
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(r.Text, r.Final)
	}
	if !r.Final {
		// interim results are observational only
		return
	}
	c.dispatch(r.Text)
}

func (c *Controller) dispatch(raw string) {
	text := strings.ToLower(strings.TrimSpace(raw))

	c.mu.Lock()
	prefix := c.cfg.WakePrefix
	fuzzyMin := c.cfg.FuzzyFallback
	cmds := make([]command, len(c.commands))
	for i, cmd := range c.commands {
		cmds[i] = *cmd
	}
	c.mu.Unlock()

	// the wake prefix must lead the transcript as its own word
	if text != prefix && !strings.HasPrefix(text, prefix+" ") {
		c.log.Debug("no wake prefix", zap.String("heard", raw))
		return
	}

	body := strings.TrimSpace(strings.TrimPrefix(text, prefix))
	if body != "" {
		for _, cmd := range cmds {
			if cmd.phrase == body {
				c.invoke(cmd, body)
				return
			}
		}

		// substring fallback, first registered wins ties
		for _, cmd := range cmds {
			if strings.Contains(body, cmd.phrase) {
				c.invoke(cmd, body)
				return
			}
		}

		if fuzzyMin > 0 {
			best := 0
			var pick *command
			for i := range cmds {
				if s := fuzzy.TokenSetRatio(cmds[i].phrase, body); s >= fuzzyMin && s > best {
					best = s
					pick = &cmds[i]
				}
			}
			if pick != nil {
				c.log.Debug("fuzzy match", zap.String("phrase", pick.phrase), zap.Int("score", best))
				c.invoke(*pick, body)
				return
			}
		}
	}

	c.log.Info("command not understood", zap.String("heard", body))
	if err := c.Speak(responseNotUnderstood); err != nil {
		c.log.Error("speak fallback response", zap.Error(err))
	}
}

func (c *Controller) invoke(cmd command, body string) {
	c.log.Info("command", zap.String("phrase", cmd.phrase), zap.String("heard", body))
	cmd.handler()
}
