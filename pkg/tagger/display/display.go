package display

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/tagger/pkg/tagger/decode"
	"github.com/cognicore/tagger/pkg/tagger/ingest"
)

// Group is a run of tokens sharing one display tag ("qty", "unit", "name", ...).
type Group struct {
	Tag    string
	Tokens []string
}

// Ingredient formats groups as HTML spans.
//
//	Ingredient([]Group{{"qty", []string{"1"}}, {"name", []string{"cat", "pie"}}})
//	// <span class='qty'>1</span><span class='name'>cat pie</span>
func Ingredient(groups []Group) string {
	var buf strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&buf, "<span class='%s'>%s</span>",
			html.EscapeString(g.Tag), html.EscapeString(strings.Join(g.Tokens, " ")))
	}
	return buf.String()
}

// Groups collects consecutive tokens of a tagged line by tag family:
// B-X starts a new "x" group, I-X continues it, and other tags form
// "other" groups. Clumped fractions are unclumped for display.
func Groups(line decode.TaggedLine) []Group {
	var groups []Group
	for _, tok := range line.Tokens {
		family, begin := tagFamily(tok.Tag)
		text := ingest.Unclump(tok.Text)

		last := len(groups) - 1
		if last >= 0 && !begin && groups[last].Tag == family {
			groups[last].Tokens = append(groups[last].Tokens, text)
			continue
		}
		groups = append(groups, Group{Tag: family, Tokens: []string{text}})
	}
	return groups
}

func tagFamily(tag string) (family string, begin bool) {
	switch {
	case strings.HasPrefix(tag, "B-"):
		return strings.ToLower(tag[2:]), true
	case strings.HasPrefix(tag, "I-"):
		return strings.ToLower(tag[2:]), false
	default:
		return "other", false
	}
}

// SmartJoin joins words with spaces without leaving a space before commas
// or closing parentheses, or after opening ones.
func SmartJoin(words []string) string {
	out := strings.Join(words, " ")
	out = strings.ReplaceAll(out, " , ", ", ")
	out = strings.ReplaceAll(out, "( ", "(")
	out = strings.ReplaceAll(out, " )", ")")
	return out
}
