package world

// Mode is the overall game mode. Core systems only run in ModeInProgress.
type Mode uint8

const (
	ModeMenu Mode = iota
	ModeInProgress
	ModeDefeated
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeInProgress:
		return "in-progress"
	case ModeDefeated:
		return "defeated"
	}
	return "unknown"
}

// Cause records why play ended.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseCastleFallen
	CausePlayerDown
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseCastleFallen:
		return "castle-fallen"
	case CausePlayerDown:
		return "player-down"
	}
	return "unknown"
}

// ModeChanged is published on the bus whenever the mode moves.
type ModeChanged struct {
	From  Mode
	To    Mode
	Cause Cause
}
