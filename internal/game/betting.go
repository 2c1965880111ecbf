package game

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// streetTransitions is the only legal forward move for each street.
// Showdown is terminal.
var streetTransitions = map[Street]Street{
	Preflop: Flop,
	Flop:    Turn,
	Turn:    River,
	River:   Showdown,
}

// Next returns the street that follows s. The second result is false
// when s is terminal.
func (s Street) Next() (Street, bool) {
	next, ok := streetTransitions[s]
	return next, ok
}

// IsBetting reports whether chips can still be committed on this street.
func (s Street) IsBetting() bool {
	return s >= Preflop && s < Showdown
}

// Action represents a dealer-entered player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a Action) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "bet", "raise", "allin"}[a]
}

// ParseAction maps the console spelling of an action to its value.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "fold", "f":
		return Fold, true
	case "check", "x":
		return Check, true
	case "call", "c":
		return Call, true
	case "bet", "b":
		return Bet, true
	case "raise", "r":
		return Raise, true
	case "allin", "all-in", "shove":
		return AllIn, true
	}
	return Fold, false
}

// AnteMode selects who posts the ante.
type AnteMode int

const (
	// AnteEach has every dealt-in seat post the ante.
	AnteEach AnteMode = iota
	// AnteBigBlind has the big blind post a single ante for the table.
	AnteBigBlind
)

func (m AnteMode) String() string {
	switch m {
	case AnteEach:
		return "each"
	case AnteBigBlind:
		return "big_blind"
	default:
		return "unknown"
	}
}

// ParseAnteMode parses the configuration spelling of an ante mode.
func ParseAnteMode(s string) (AnteMode, bool) {
	switch s {
	case "", "each":
		return AnteEach, true
	case "big_blind", "bb":
		return AnteBigBlind, true
	}
	return AnteEach, false
}

// Blinds is the forced-bet structure for one hand.
type Blinds struct {
	Small int
	Big   int
	Ante  int
	Mode  AnteMode
}
