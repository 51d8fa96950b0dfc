package ingest

import (
	"regexp"
	"strings"
	"unicode"
)

// ClumpMarker joins the whole and fractional parts of a mixed number so
// the pair survives whitespace splitting as one token ("1 2/3" -> "1$2/3").
const ClumpMarker = "$"

// americanUnits are split from a following slash so dual notations such as
// "2 cups/300 grams" keep the American unit as its own token.
var americanUnits = []string{"cup", "tablespoon", "teaspoon", "pound", "ounce", "quart", "pint"}

var unitSlashReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(americanUnits)*4)
	for _, unit := range americanUnits {
		pairs = append(pairs, unit+"/", unit+" ")
		pairs = append(pairs, unit+"s/", unit+"s ")
	}
	return strings.NewReplacer(pairs...)
}()

// mixedFraction matches "<int><space><digit>/<digit>".
var mixedFraction = regexp.MustCompile(`(\d+)\s+(\d)/(\d)`)

// "$$" is a literal dollar in a regexp template, i.e. ClumpMarker.
const clumpTemplate = "${1}$$${2}/${3}"

// Tokenize splits a normalized ingredient line into tokens.
//
// American units are split off a trailing slash, mixed fractions are
// clumped with ClumpMarker, and the result is split on whitespace with
// commas and parentheses always emitted as tokens of their own.
func Tokenize(s string) []string {
	s = SplitUnitSlashes(s)
	s = ClumpFractions(s)

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
		case isPunctToken(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// SplitUnitSlashes rewrites "cup/" and "cups/" style notations (for each
// American unit) to "cup " and "cups ".
func SplitUnitSlashes(s string) string {
	return unitSlashReplacer.Replace(s)
}

// ClumpFractions replaces the whitespace between the integer and fractional
// part of a quantity with ClumpMarker. The rest of the string is left alone.
//
//	ClumpFractions("aaa 1 2/3 bbb") // "aaa 1$2/3 bbb"
func ClumpFractions(s string) string {
	return mixedFraction.ReplaceAllString(s, clumpTemplate)
}

// Unclump is the reverse of ClumpFractions.
func Unclump(s string) string {
	return strings.ReplaceAll(s, ClumpMarker, " ")
}

func isPunctToken(r rune) bool {
	return r == ',' || r == '(' || r == ')'
}
