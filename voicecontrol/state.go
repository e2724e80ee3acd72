package voicecontrol

// State is the controller phase. Exactly one holds at any instant.
type State int

const (
	StateIdle State = iota
	StateListening
	StateSpeaking
	StateMuted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateSpeaking:
		return "speaking"
	case StateMuted:
		return "muted"
	default:
		return "unknown"
	}
}

type event int

const (
	eventStart event = iota
	eventStop
	eventEnd
	eventSpeak
	eventSpoken
	eventMute
	eventUnmute
)

func (e event) String() string {
	switch e {
	case eventStart:
		return "start"
	case eventStop:
		return "stop"
	case eventEnd:
		return "end"
	case eventSpeak:
		return "speak"
	case eventSpoken:
		return "spoken"
	case eventMute:
		return "mute"
	case eventUnmute:
		return "unmute"
	default:
		return "unknown"
	}
}

// transition computes the next state for an event arriving in state s. The
// muted flag is the cross-cutting switch consulted by every transition.
// ok=false means the event does not apply in s and the state is unchanged.
//
// Listening and Speaking exclude each other by construction: no transition
// enters Speaking without leaving Listening, and eventStart does not apply
// while Speaking.
func transition(s State, e event, muted bool) (next State, ok bool) {
	switch e {
	case eventStart:
		if s == StateIdle && !muted {
			return StateListening, true
		}
	case eventStop, eventEnd:
		if s == StateListening {
			return StateIdle, true
		}
	case eventSpeak:
		if s != StateSpeaking {
			return StateSpeaking, true
		}
	case eventSpoken:
		if s == StateSpeaking {
			if muted {
				return StateMuted, true
			}
			return StateIdle, true
		}
	case eventMute:
		// muting while speaking leaves Speaking in place, eventSpoken then
		// lands on Muted
		if s != StateMuted && s != StateSpeaking {
			return StateMuted, true
		}
	case eventUnmute:
		if s == StateMuted {
			return StateIdle, true
		}
	}
	return s, false
}
