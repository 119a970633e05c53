package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/appengine-ltd/steelball/internal/game"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

// RegisterCommand adds c under its canonical name and every alias. Names are
// normalised first; a command with an empty name is ignored.
func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	r.commands[c.Canonical] = c
	for _, name := range append([]string{c.Canonical}, c.Aliases...) {
		if name = normaliseInput(name); name != "" {
			r.phrases = append(r.phrases, commandPhrase{canonical: c.Canonical, alias: name, tokens: tokenise(name)})
		}
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	canonical = normaliseInput(canonical)
	cmd, ok := r.commands[canonical]
	return cmd, ok
}

// Commands lists canonical names in registration-independent order.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

type matchSource int

const (
	matchExact matchSource = iota
	matchAlias
	matchPrefix
	matchTypo
)

// commandMatch is one phrase that could explain the leading tokens of the
// input. Consumed counts the tokens the phrase used up.
type commandMatch struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    matchSource
}

const maxAlternates = 4

// matchCommand ranks every registered phrase against the leading tokens and
// returns the best match plus up to maxAlternates runners-up, one per command.
func (r *Registry) matchCommand(tokens []string) (commandMatch, []commandMatch) {
	if len(tokens) == 0 {
		return commandMatch{}, nil
	}
	whole := strings.Join(tokens, " ")
	var found []commandMatch
	for _, phrase := range r.phrases {
		if m, ok := phrase.score(tokens, whole); ok {
			found = append(found, m)
		}
	}
	if len(found) == 0 {
		return commandMatch{}, nil
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].outranks(found[j]) })

	best := found[0]
	seen := map[string]bool{best.Canonical: true}
	var alts []commandMatch
	for _, m := range found[1:] {
		if len(alts) == maxAlternates {
			break
		}
		if !seen[m.Canonical] {
			seen[m.Canonical] = true
			alts = append(alts, m)
		}
	}
	return best, alts
}

func (m commandMatch) outranks(o commandMatch) bool {
	switch {
	case m.Score != o.Score:
		return m.Score > o.Score
	case m.Consumed != o.Consumed:
		return m.Consumed > o.Consumed
	default:
		return m.Canonical < o.Canonical
	}
}

// score tries an exact or alias hit, then a single-word prefix, then a
// Levenshtein typo within levenshteinLimit.
func (p commandPhrase) score(tokens []string, whole string) (commandMatch, bool) {
	n := len(p.tokens)
	if n == 0 {
		return commandMatch{}, false
	}
	m := commandMatch{Canonical: p.canonical, Alias: p.alias}
	isAlias := p.alias != p.canonical

	head := min(len(tokens), n)
	lead := strings.Join(tokens[:head], " ")
	switch {
	case head == n && lead == p.alias:
		m.Consumed, m.Score, m.Source = head, 1.0, matchExact
		if isAlias {
			m.Score, m.Source = 0.97, matchAlias
		}
		return m, true
	case n == 1 && len(tokens[0]) >= 2 && strings.HasPrefix(p.alias, tokens[0]):
		m.Consumed, m.Score, m.Source = 1, 0.9, matchPrefix
		return m, true
	}

	if n > 1 && len(tokens) >= n {
		head, lead = n, strings.Join(tokens[:n], " ")
	}
	if len(lead) < 3 {
		return commandMatch{}, false
	}
	dist := levenshtein.ComputeDistance(lead, p.alias)
	if dist > levenshteinLimit(len(p.alias)) {
		return commandMatch{}, false
	}
	m.Consumed, m.Source = head, matchTypo
	m.Score = 0.72 - 0.08*float64(dist)
	if strings.Contains(whole, p.alias) {
		m.Score += 0.04
	}
	if isAlias {
		m.Score += 0.03
	}
	return m, true
}

// levenshteinLimit is the typo budget for an alias of the given length.
func levenshteinLimit(length int) int {
	return min(3, 1+max(0, length-1)/4)
}

func DefaultRegistry() *Registry {
	dir := func(d game.Direction) *game.Direction { return &d }

	r := NewRegistry()
	for _, cmd := range []CommandDef{
		{Canonical: "up", Aliases: []string{"north"}, Action: ActionMove, Direction: dir(game.DirUp), Repeatable: true},
		{Canonical: "down", Aliases: []string{"south"}, Action: ActionMove, Direction: dir(game.DirDown), Repeatable: true},
		{Canonical: "left", Aliases: []string{"west"}, Action: ActionMove, Direction: dir(game.DirLeft), Repeatable: true},
		{Canonical: "right", Aliases: []string{"east"}, Action: ActionMove, Direction: dir(game.DirRight), Repeatable: true},
		{Canonical: "move", Aliases: []string{"go", "roll", "nudge", "push"}, Action: ActionMove, TakesDirection: true, Repeatable: true},
		{Canonical: "trigger", Aliases: []string{"e", "press", "flip", "toggle", "switch"}, Action: ActionTrigger, Repeatable: true},
		{Canonical: "restart", Aliases: []string{"reset", "new game", "again"}, Action: ActionRestart},
		{Canonical: "status", Aliases: []string{"info", "state", "where"}, Action: ActionStatus},
		{Canonical: "help", Aliases: []string{"h", "commands"}, Action: ActionHelp},
		{Canonical: "quit", Aliases: []string{"q", "exit", "stop"}, Action: ActionQuit},
	} {
		r.RegisterCommand(cmd)
	}
	return r
}
