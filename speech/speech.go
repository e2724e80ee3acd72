// Package speech synthesizes spoken responses.
package speech

import (
	"context"
	"strings"

	"golang.org/x/exp/slices"
)

// Options are the optional synthesis parameters of one utterance.
type Options struct {
	Voice  string
	Rate   float64
	Pitch  float64
	Volume float64
}

// Request is one transient synthesis request.
type Request struct {
	Text     string
	Language string
	Options
}

// Voice is a synthesizer voice with its language code.
type Voice struct {
	Name     string
	Language string
}

// Synthesizer renders text to playable audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	Voices() []Voice
}

// SelectVoice picks a voice by case-insensitive substring of the name, then
// by language code. An empty name means no preference was matched and the
// synthesizer default applies.
func SelectVoice(voices []Voice, want, lang string) Voice {
	want = strings.ToLower(strings.TrimSpace(want))
	if want != "" {
		i := slices.IndexFunc(voices, func(v Voice) bool {
			return strings.Contains(strings.ToLower(v.Name), want)
		})
		if i >= 0 {
			return voices[i]
		}
	}

	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang != "" {
		i := slices.IndexFunc(voices, func(v Voice) bool {
			return strings.HasPrefix(strings.ToLower(v.Language), lang)
		})
		if i >= 0 {
			return voices[i]
		}
	}

	return Voice{}
}
