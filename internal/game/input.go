package game

import "strings"

type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Delta is the unit step on the ground plane; up moves away from the camera (-Z).
func (d Direction) Delta() (dx, dz float64) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "arrowup", "north":
		return DirUp, true
	case "down", "arrowdown", "south":
		return DirDown, true
	case "left", "arrowleft", "west":
		return DirLeft, true
	case "right", "arrowright", "east":
		return DirRight, true
	default:
		return 0, false
	}
}

type IntentKind int

const (
	IntentNudge IntentKind = iota
	IntentTrigger
	IntentRestart
)

type Intent struct {
	Kind      IntentKind
	Direction Direction
}

func Nudge(d Direction) Intent { return Intent{Kind: IntentNudge, Direction: d} }
func Trigger() Intent          { return Intent{Kind: IntentTrigger} }
func Restart() Intent          { return Intent{Kind: IntentRestart} }

// IntentForKeyCode maps browser-style key codes (ArrowUp, KeyE, ...) to intents.
func IntentForKeyCode(code string) (Intent, bool) {
	switch code {
	case "ArrowUp":
		return Nudge(DirUp), true
	case "ArrowDown":
		return Nudge(DirDown), true
	case "ArrowLeft":
		return Nudge(DirLeft), true
	case "ArrowRight":
		return Nudge(DirRight), true
	case "KeyE":
		return Trigger(), true
	case "KeyR":
		return Restart(), true
	default:
		return Intent{}, false
	}
}
