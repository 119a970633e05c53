package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/appengine-ltd/steelball/internal/game"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' || r == ':' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// parseRepeatToken reads "3", "x3", "3x", "twice" and friends.
func parseRepeatToken(token string) (int, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	switch token {
	case "once":
		return 1, true
	case "twice":
		return 2, true
	case "thrice":
		return 3, true
	}
	token = strings.TrimSuffix(strings.TrimPrefix(token, "x"), "x")
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 {
		return 0, false
	}
	return min(n, MaxRepeat), true
}

// mapDirection accepts screen words, compass words and their single letters.
// It is only consulted for arguments, so "e" here means east and not trigger.
func mapDirection(token string) (game.Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "n", "u", "forward", "forwards", "ahead":
		return game.DirUp, true
	case "s", "d", "back", "backward", "backwards":
		return game.DirDown, true
	case "w", "l":
		return game.DirLeft, true
	case "e", "r":
		return game.DirRight, true
	}
	return game.ParseDirection(token)
}
