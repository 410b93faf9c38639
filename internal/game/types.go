package game

// Phase is the hand state machine. A hand moves strictly forward through
// these states; Settled is terminal.
type Phase int

const (
	Dealing Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
	Settled
)

func (p Phase) String() string {
	return [...]string{"dealing", "preflop", "flop", "turn", "river", "showdown", "settled"}[p]
}

// IsStreet reports whether the phase is a betting round.
func (p Phase) IsStreet() bool {
	return p >= Preflop && p <= River
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction parses an action name as received from the transport layer.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "raise":
		return Raise, true
	default:
		return 0, false
	}
}
