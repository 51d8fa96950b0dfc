package ingest

import (
	"regexp"
	"strings"
)

// tagPattern matches a simple angle-bracket tag. A '<' with no closing
// '>' before the next '<' is left in place.
var tagPattern = regexp.MustCompile(`<[^<]+?>`)

// unicodeFractions maps fraction glyphs to their ASCII spelling.
var unicodeFractions = map[string]string{
	"⅛": "1/8",
	"⅜": "3/8",
	"⅝": "5/8",
	"⅞": "7/8",
	"⅙": "1/6",
	"⅚": "5/6",
	"⅕": "1/5",
	"⅖": "2/5",
	"⅗": "3/5",
	"⅘": "4/5",
	"¼": "1/4",
	"½": "1/2",
	"¾": "3/4",
	"⅓": "1/3",
	"⅔": "2/3",
	"⅐": "1/7",
	"⅑": "1/9",
	"⅒": "1/10",
}

// fractionReplacer is built once from unicodeFractions. Each glyph gets a
// leading space so "1¾" becomes "1 3/4" rather than "13/4".
var fractionReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(unicodeFractions)*2)
	for glyph, ascii := range unicodeFractions {
		pairs = append(pairs, glyph, " "+ascii)
	}
	return strings.NewReplacer(pairs...)
}()

// Normalize cleans a raw ingredient line: markup is stripped and unicode
// fraction glyphs are spelled out in ASCII.
func Normalize(raw string) string {
	return CleanUnicodeFractions(StripTags(raw))
}

// StripTags removes anything that looks like an HTML tag.
func StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return tagPattern.ReplaceAllString(s, "")
}

// CleanUnicodeFractions replaces known fraction glyphs with a space and
// their ASCII form. Unknown glyphs pass through.
//
//	CleanUnicodeFractions("1⅞") // "1 7/8"
func CleanUnicodeFractions(s string) string {
	return fractionReplacer.Replace(s)
}
