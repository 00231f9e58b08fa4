package ast

// State is the clearing state of a transaction.
type State uint8

const (
	Uncleared State = iota
	Cleared
	Pending
)

var stateNames = map[State]string{
	Uncleared: "Uncleared",
	Cleared:   "Cleared",
	Pending:   "Pending",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Marker returns the character used for the state in ledger files:
// "*" for cleared, "!" for pending and "" for uncleared.
func (s State) Marker() string {
	switch s {
	case Cleared:
		return "*"
	case Pending:
		return "!"
	default:
		return ""
	}
}

// StateFromMarker maps a state marker to a State.
// Anything other than "*" or "!" is uncleared.
func StateFromMarker(marker string) State {
	switch marker {
	case "*":
		return Cleared
	case "!":
		return Pending
	default:
		return Uncleared
	}
}
