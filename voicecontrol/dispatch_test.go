package voicecontrol

import (
	"context"
	"testing"

	"github.com/EverettNC/ALPHAWOLF-sub001/recognize"
)

func newDispatchController() (*Controller, *fakeSynth) {
	c := New(context.Background())
	synth := &fakeSynth{}
	c.SetSynthesizer(synth)
	c.SetPlayer(func(context.Context, []byte) error { return nil })
	c.SetConfig(Config{WakePrefix: "alpha"})
	return c, synth
}

func TestDispatch(t *testing.T) {
	cases := []struct {
		transcript string
		final      bool
		invoked    int
		fallback   bool // expect the spoken not-understood response
	}{
		{"alpha turn on lights", true, 1, false},
		{"turn on lights", true, 0, false},                      // no wake prefix
		{"alpha please turn on lights now", true, 1, false},     // substring fallback
		{"Alpha TURN ON Lights", true, 1, false},                // case-insensitive
		{"  alpha turn on lights  ", true, 1, false},            // whitespace trimmed
		{"alpha turn on lights", false, 0, false},               // interim, never dispatched
		{"alphabet turn on lights", true, 0, false},             // prefix must be its own word
		{"alpha", true, 0, true},                                // empty body is a no-match
		{"alpha water the plants", true, 0, true},               // unknown command
		{"", true, 0, false},                                    // empty transcript
	}

	for i, tc := range cases {
		c, synth := newDispatchController()
		invoked := 0
		c.RegisterCommand("turn on lights", func() { invoked++ })

		c.onResult(recognize.Result{Text: tc.transcript, Final: tc.final})

		if invoked != tc.invoked {
			t.Fatalf("case#%v %q invoked=%v want %v", i, tc.transcript, invoked, tc.invoked)
		}
		spoken := synth.spoken()
		if tc.fallback {
			if len(spoken) != 1 || spoken[0] != responseNotUnderstood {
				t.Fatalf("case#%v %q spoken=%v", i, tc.transcript, spoken)
			}
		} else if len(spoken) != 0 {
			t.Fatalf("case#%v %q unexpected speech %v", i, tc.transcript, spoken)
		}
	}
}

func TestDispatchNormalizesConfiguredPrefix(t *testing.T) {
	c, _ := newDispatchController()
	c.SetConfig(Config{WakePrefix: "  Alpha "}) // e.g. straight from an env var
	invoked := 0
	c.RegisterCommand("turn on lights", func() { invoked++ })

	c.onResult(recognize.Result{Text: "alpha turn on lights", Final: true})
	if invoked != 1 {
		t.Fatalf("mixed-case prefix must still match, invoked=%v", invoked)
	}
}

func TestDispatchExactBeatsSubstring(t *testing.T) {
	c, _ := newDispatchController()
	var got string
	c.RegisterCommand("lights", func() { got = "lights" })
	c.RegisterCommand("turn on lights", func() { got = "turn on lights" })

	c.onResult(recognize.Result{Text: "alpha turn on lights", Final: true})
	if got != "turn on lights" {
		t.Fatalf("exact match must win, got %q", got)
	}
}

func TestDispatchSubstringFirstRegisteredWins(t *testing.T) {
	c, _ := newDispatchController()
	var got string
	c.RegisterCommand("lights", func() { got = "lights" })
	c.RegisterCommand("on lights", func() { got = "on lights" })

	c.onResult(recognize.Result{Text: "alpha please turn on lights", Final: true})
	if got != "lights" {
		t.Fatalf("first registered phrase must win ties, got %q", got)
	}
}

func TestDispatchHandlerInvokedExactlyOnce(t *testing.T) {
	c, _ := newDispatchController()
	invoked := 0
	c.RegisterCommand("turn on lights", func() { invoked++ })

	c.onResult(recognize.Result{Text: "alpha turn on lights", Final: true})
	if invoked != 1 {
		t.Fatalf("invoked=%v", invoked)
	}
}

func TestRegisterCommandOverwrites(t *testing.T) {
	c, _ := newDispatchController()
	var got string
	c.RegisterCommand("Turn On Lights", func() { got = "old" })
	c.RegisterCommand("turn on lights", func() { got = "new" })

	cmds := c.Commands()
	if len(cmds) != 1 || cmds[0] != "turn on lights" {
		t.Fatalf("commands=%v", cmds)
	}

	c.onResult(recognize.Result{Text: "alpha turn on lights", Final: true})
	if got != "new" {
		t.Fatalf("duplicate registration must overwrite, got %q", got)
	}
}

func TestRegisterCommandIgnoresEmpty(t *testing.T) {
	c, _ := newDispatchController()
	c.RegisterCommand("   ", func() {})
	c.RegisterCommand("ok", nil)
	if got := c.Commands(); len(got) != 0 {
		t.Fatalf("commands=%v", got)
	}
}

func TestDispatchFuzzyFallback(t *testing.T) {
	c, _ := newDispatchController()
	c.SetConfig(Config{WakePrefix: "alpha", FuzzyFallback: 90})
	invoked := 0
	c.RegisterCommand("turn on lights", func() { invoked++ })

	// substring match fails against the inserted article, fuzzy catches it
	c.onResult(recognize.Result{Text: "alpha turn on the lights", Final: true})
	if invoked != 1 {
		t.Fatalf("fuzzy stage did not fire, invoked=%v", invoked)
	}
}

func TestDispatchFuzzyDisabledByDefault(t *testing.T) {
	c, synth := newDispatchController()
	invoked := 0
	c.RegisterCommand("turn on lights", func() { invoked++ })

	c.onResult(recognize.Result{Text: "alpha turn on the lights", Final: true})
	if invoked != 0 {
		t.Fatalf("fuzzy stage must be off by default, invoked=%v", invoked)
	}
	if spoken := synth.spoken(); len(spoken) != 1 || spoken[0] != responseNotUnderstood {
		t.Fatalf("spoken=%v", spoken)
	}
}
