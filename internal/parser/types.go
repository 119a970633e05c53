package parser

import "github.com/appengine-ltd/steelball/internal/game"

type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionTrigger
	ActionRestart
	ActionStatus
	ActionHelp
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionTrigger:
		return "trigger"
	case ActionRestart:
		return "restart"
	case ActionStatus:
		return "status"
	case ActionHelp:
		return "help"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// MaxRepeat caps "left 500" style counts.
const MaxRepeat = 20

type Intent struct {
	Raw        string
	Normalised string
	Verb       string
	Action     Action
	Direction  game.Direction
	Repeat     int
	Confidence float64
	Clarify    *ClarifyQuestion
}

type ClarifyQuestion struct {
	Prompt  string
	Options []Intent
}

type CommandDef struct {
	Canonical string
	Aliases   []string
	Action    Action
	// Direction is set for the four movement commands.
	Direction *game.Direction
	// TakesDirection marks verbs like "move" whose first argument is a direction.
	TakesDirection bool
	// Repeatable commands accept a trailing count.
	Repeatable bool
}

// GameIntents expands a resolved intent into the runner inputs it stands for.
// Status, help and quit are front-end concerns and expand to nothing.
func (i Intent) GameIntents() []game.Intent {
	if i.Clarify != nil {
		return nil
	}
	n := max(i.Repeat, 1)
	var out []game.Intent
	switch i.Action {
	case ActionMove:
		for range n {
			out = append(out, game.Nudge(i.Direction))
		}
	case ActionTrigger:
		for range n {
			out = append(out, game.Trigger())
		}
	case ActionRestart:
		out = append(out, game.Restart())
	}
	return out
}
