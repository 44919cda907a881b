package core

type State int

const (
	StateOngoing State = iota
	StatePending       // Computer is choosing or chaining a move
	StateStuck         // Computer move could not be scheduled
	StateRedWins
	StateBlackWins
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStuck:
		return "stuck"
	case StateRedWins:
		return "red wins"
	case StateBlackWins:
		return "black wins"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether the state is terminal
func (s State) IsOver() bool {
	return s == StateRedWins || s == StateBlackWins
}

// WinState returns the terminal state for a winning player
func WinState(winner Player) State {
	if winner == Red {
		return StateRedWins
	}
	return StateBlackWins
}

// Player is the owner of a piece and the side to move.
// The zero value marks an empty cell.
type Player byte

const (
	NoPlayer Player = iota
	Red
	Black
)

func (p Player) String() string {
	switch p {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "-"
	}
}

// Opponent returns the other side; NoPlayer stays NoPlayer
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Black
	case Black:
		return Red
	default:
		return NoPlayer
	}
}

// Forward is the row delta of a man's advance: Red moves up, Black moves down
func (p Player) Forward() int {
	if p == Red {
		return -1
	}
	return 1
}

// BackRow is the row on which the player's men are promoted
func (p Player) BackRow() int {
	if p == Red {
		return 0
	}
	return 7
}

// ParsePlayer accepts "r"/"red" and "b"/"black"
func ParsePlayer(s string) (Player, bool) {
	switch s {
	case "r", "red":
		return Red, true
	case "b", "black":
		return Black, true
	default:
		return NoPlayer, false
	}
}

type Mode int

const (
	ModePvP Mode = iota + 1
	ModePvAI
)

func (m Mode) String() string {
	switch m {
	case ModePvP:
		return "pvp"
	case ModePvAI:
		return "pvai"
	default:
		return "unknown"
	}
}

// ParseMode parses the API/CLI spelling of a mode
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "pvp":
		return ModePvP, true
	case "pvai", "ai":
		return ModePvAI, true
	default:
		return 0, false
	}
}

// ComputerSide is the side played by the computer in PvAI games
const ComputerSide = Black

// Actor identifies who is submitting a move
type Actor int

const (
	ActorHuman Actor = iota + 1
	ActorComputer
)
