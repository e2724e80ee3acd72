package voicecontrol

import "testing"

func TestTransition(t *testing.T) {
	cases := []struct {
		state State
		e     event
		muted bool
		next  State
		ok    bool
	}{
		{StateIdle, eventStart, false, StateListening, true},
		{StateIdle, eventStart, true, StateIdle, false}, // mute takes precedence
		{StateListening, eventStart, false, StateListening, false},
		{StateSpeaking, eventStart, false, StateSpeaking, false},
		{StateMuted, eventStart, true, StateMuted, false},

		{StateListening, eventStop, false, StateIdle, true},
		{StateIdle, eventStop, false, StateIdle, false},
		{StateListening, eventEnd, false, StateIdle, true},
		{StateIdle, eventEnd, false, StateIdle, false},

		{StateIdle, eventSpeak, false, StateSpeaking, true},
		{StateListening, eventSpeak, false, StateSpeaking, true},
		{StateMuted, eventSpeak, true, StateSpeaking, true},
		{StateSpeaking, eventSpeak, false, StateSpeaking, false},

		{StateSpeaking, eventSpoken, false, StateIdle, true},
		{StateSpeaking, eventSpoken, true, StateMuted, true},
		{StateIdle, eventSpoken, false, StateIdle, false},

		{StateIdle, eventMute, true, StateMuted, true},
		{StateListening, eventMute, true, StateMuted, true},
		{StateSpeaking, eventMute, true, StateSpeaking, false},
		{StateMuted, eventMute, true, StateMuted, false},

		{StateMuted, eventUnmute, false, StateIdle, true},
		{StateIdle, eventUnmute, false, StateIdle, false},
	}
	for i, c := range cases {
		next, ok := transition(c.state, c.e, c.muted)
		if next != c.next || ok != c.ok {
			t.Fatalf("case#%v transition(%v, %v, muted=%v)=(%v,%v) want (%v,%v)",
				i, c.state, c.e, c.muted, next, ok, c.next, c.ok)
		}
	}
}

// No event applied in Listening may keep the state Listening while producing
// Speaking, and vice versa: the enum admits only one phase at a time, and
// every path into Speaking leaves Listening first.
func TestTransitionNeverListeningAndSpeaking(t *testing.T) {
	states := []State{StateIdle, StateListening, StateSpeaking, StateMuted}
	events := []event{eventStart, eventStop, eventEnd, eventSpeak, eventSpoken, eventMute, eventUnmute}
	for _, s := range states {
		for _, e := range events {
			for _, muted := range []bool{false, true} {
				next, _ := transition(s, e, muted)
				if next == StateSpeaking && e != eventSpeak && s != StateSpeaking {
					t.Fatalf("transition(%v, %v, %v) enters Speaking without eventSpeak", s, e, muted)
				}
				if next == StateListening && e != eventStart && s != StateListening {
					t.Fatalf("transition(%v, %v, %v) enters Listening without eventStart", s, e, muted)
				}
			}
		}
	}
}
