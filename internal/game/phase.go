package game

// Phase represents where a session is in the round lifecycle. Waiting
// is both the initial state and the idle state between rounds.
type Phase int

const (
	Waiting Phase = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case PreFlop:
		return "pre_flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// IsBettingStreet reports whether player actions are accepted in this
// phase.
func (p Phase) IsBettingStreet() bool {
	return p >= PreFlop && p <= River
}

// nextStreet is the pure transition function for completed betting
// streets. It returns the following phase and the number of community
// cards it reveals.
func nextStreet(p Phase) (Phase, int) {
	switch p {
	case PreFlop:
		return Flop, 3
	case Flop:
		return Turn, 1
	case Turn:
		return River, 1
	case River:
		return Showdown, 0
	default:
		return p, 0
	}
}
