package ingest

import (
	"strconv"
	"strings"
)

// FeatureCount is the fixed length of every feature vector.
const FeatureCount = 4

var lengthThresholds = []int{4, 8, 12, 16, 20}

// Features returns the feature labels for the token at the 1-based index
// within tokens. The order is part of the model's feature template:
//
//	I<index>, L<length group>, YesCAP|NoCAP, YesPAREN|NoPAREN
func Features(token string, index int, tokens []string) []string {
	capLabel := "NoCAP"
	if IsCapitalized(token) {
		capLabel = "YesCAP"
	}
	parenLabel := "NoPAREN"
	if InsideParenthesis(token, tokens) {
		parenLabel = "YesPAREN"
	}

	return []string{
		"I" + strconv.Itoa(index),
		"L" + LengthGroup(len(tokens)),
		capLabel,
		parenLabel,
	}
}

// LengthGroup buckets a token count into one of six groups:
// the first threshold strictly above n, or "X" when n >= 20.
func LengthGroup(n int) string {
	for _, limit := range lengthThresholds {
		if n < limit {
			return strconv.Itoa(limit)
		}
	}
	return "X"
}

// IsCapitalized reports whether token starts with an ASCII capital letter.
func IsCapitalized(token string) bool {
	return token != "" && token[0] >= 'A' && token[0] <= 'Z'
}

// InsideParenthesis reports whether token is a parenthesis, or appears
// after a '(' and before a ')' in the space-joined line.
func InsideParenthesis(token string, tokens []string) bool {
	if token == "(" || token == ")" {
		return true
	}
	if token == "" {
		return false
	}

	line := strings.Join(tokens, " ")
	open := strings.Index(line, "(")
	if open < 0 {
		return false
	}
	rest := line[open+1:]
	at := strings.Index(rest, token)
	if at < 0 {
		return false
	}
	return strings.Contains(rest[at+len(token):], ")")
}
