// Package notify delivers fire-and-forget desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"
)

const appName = "Alphawolf"

const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
)

type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Notify shows a desktop notification tagged with kind. It never blocks the
// caller and delivery errors are dropped.
func (n *Notifier) Notify(message string, kind string) {
	if !n.enabled {
		return
	}
	title := appName
	switch kind {
	case KindSuccess:
		title += ": done"
	case KindWarning:
		title += ": warning"
	case KindError:
		title += ": error"
	}
	go func() {
		_ = beeep.Notify(title, message, "")
	}()
}

func (n *Notifier) Info(message string)    { n.Notify(message, KindInfo) }
func (n *Notifier) Success(message string) { n.Notify(message, KindSuccess) }
func (n *Notifier) Warning(message string) { n.Notify(message, KindWarning) }
func (n *Notifier) Error(message string)   { n.Notify(message, KindError) }
