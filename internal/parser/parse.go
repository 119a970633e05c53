package parser

import (
	"fmt"
	"strings"

	"github.com/appengine-ltd/steelball/internal/game"
)

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Registry() *Registry {
	return p.registry
}

func (p *Parser) Parse(raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Action:     ActionNone,
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command. Try help."}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
		if inferred := inferFreeTextIntent(raw, intent.Normalised); inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try up, down, left, right, trigger, restart, status, help or quit.",
		}
		return intent
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		intent.Clarify = &ClarifyQuestion{
			Prompt: "Did you mean:",
			Options: []Intent{
				p.optionFor(raw, cmdMatch),
				p.optionFor(raw, alternates[0]),
			},
		}
		return intent
	}

	def, _ := p.registry.command(cmdMatch.Canonical)
	intent.Verb = def.Canonical
	intent.Action = def.Action
	intent.Confidence = clampScore(cmdMatch.Score)

	args := tokens
	if cmdMatch.Consumed > 0 && len(tokens) >= cmdMatch.Consumed {
		args = tokens[cmdMatch.Consumed:]
	}
	args, repeat := splitRepeat(args)
	if def.Repeatable {
		intent.Repeat = max(repeat, 1)
	} else {
		intent.Repeat = 1
	}

	argScore := 0.9
	switch {
	case def.Direction != nil:
		intent.Direction = *def.Direction
	case def.TakesDirection:
		if len(args) == 0 {
			intent.Clarify = &ClarifyQuestion{
				Prompt:  fmt.Sprintf("Which way should I %s?", def.Canonical),
				Options: directionOptions(raw, intent.Repeat),
			}
			intent.Confidence = 0.46
			return intent
		}
		d, rest, ok := takeDirection(args)
		if !ok {
			intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("%q is not a direction. Use up, down, left or right.", strings.Join(args, " "))}
			intent.Confidence = 0.42
			return intent
		}
		intent.Direction = d
		intent.Verb = d.String()
		args = rest
	}
	if len(args) > 0 {
		argScore -= 0.1 * float64(len(args))
	}
	intent.Confidence = clampScore((intent.Confidence * 0.75) + (clampScore(argScore) * 0.25))

	if intent.Confidence < 0.52 {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase or pick a clearer command."}
	}
	return intent
}

func (p *Parser) optionFor(raw string, c commandMatch) Intent {
	def, _ := p.registry.command(c.Canonical)
	opt := Intent{
		Raw:        raw,
		Normalised: c.Canonical,
		Verb:       c.Canonical,
		Action:     def.Action,
		Repeat:     1,
		Confidence: c.Score,
	}
	if def.Direction != nil {
		opt.Direction = *def.Direction
	}
	return opt
}

func directionOptions(raw string, repeat int) []Intent {
	options := make([]Intent, 0, 4)
	for _, d := range []game.Direction{game.DirUp, game.DirDown, game.DirLeft, game.DirRight} {
		options = append(options, Intent{
			Raw:        raw,
			Normalised: d.String(),
			Verb:       d.String(),
			Action:     ActionMove,
			Direction:  d,
			Repeat:     repeat,
			Confidence: 0.5,
		})
	}
	return options
}

// takeDirection removes the first direction word from args.
func takeDirection(args []string) (game.Direction, []string, bool) {
	for i, token := range args {
		if d, ok := mapDirection(token); ok {
			rest := append(append([]string(nil), args[:i]...), args[i+1:]...)
			return d, rest, true
		}
	}
	return 0, args, false
}

func splitRepeat(tokens []string) ([]string, int) {
	if len(tokens) == 0 {
		return nil, 0
	}
	out := make([]string, 0, len(tokens))
	repeat := 0
	for _, token := range tokens {
		if repeat == 0 {
			if n, ok := parseRepeatToken(token); ok {
				repeat = n
				continue
			}
		}
		if token == "times" || token == "steps" || token == "step" {
			continue
		}
		out = append(out, token)
	}
	return out, repeat
}

// inferFreeTextIntent handles sentences such as "roll the ball left twice"
// that the registry cannot anchor on their first word.
func inferFreeTextIntent(raw, normalised string) *Intent {
	tokens := tokenise(normalised)
	if len(tokens) == 0 {
		return nil
	}
	_, repeat := splitRepeat(tokens)

	makeIntent := func(action Action, verb string, d game.Direction, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Verb:       verb,
			Action:     action,
			Direction:  d,
			Repeat:     max(repeat, 1),
			Confidence: confidence,
		}
	}

	for _, token := range tokens {
		if d, ok := game.ParseDirection(token); ok {
			return makeIntent(ActionMove, d.String(), d, 0.8)
		}
	}
	if containsAnyWord(normalised, "trigger", "flip", "toggle", "press") {
		return makeIntent(ActionTrigger, "trigger", 0, 0.76)
	}
	if containsAnyWord(normalised, "restart", "reset") {
		i := makeIntent(ActionRestart, "restart", 0, 0.76)
		i.Repeat = 1
		return i
	}
	if containsAnyWord(normalised, "where", "status") {
		i := makeIntent(ActionStatus, "status", 0, 0.7)
		i.Repeat = 1
		return i
	}
	return nil
}

func containsAnyWord(value string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(" "+value+" ", " "+w+" ") {
			return true
		}
	}
	return false
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IntentToCommandString renders an intent the way a player would type it.
func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	if intent.Repeat > 1 {
		return fmt.Sprintf("%s %d", verb, intent.Repeat)
	}
	return verb
}
