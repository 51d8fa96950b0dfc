package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// pluralUnits maps known plural unit and container words to their singular.
// Built once; never mutated.
var pluralUnits = map[string]string{
	"cups":        "cup",
	"tablespoons": "tablespoon",
	"teaspoons":   "teaspoon",
	"pounds":      "pound",
	"ounces":      "ounce",
	"cloves":      "clove",
	"sprigs":      "sprig",
	"pinches":     "pinch",
	"bunches":     "bunch",
	"slices":      "slice",
	"grams":       "gram",
	"heads":       "head",
	"quarts":      "quart",
	"stalks":      "stalk",
	"pints":       "pint",
	"pieces":      "piece",
	"sticks":      "stick",
	"dashes":      "dash",
	"fillets":     "fillet",
	"cans":        "can",
	"ears":        "ear",
	"packages":    "package",
	"strips":      "strip",
	"bulbs":       "bulb",
	"bottles":     "bottle",
}

// singularUnits is the set of singular forms in pluralUnits.
var singularUnits = func() map[string]struct{} {
	out := make(map[string]struct{}, len(pluralUnits))
	for _, s := range pluralUnits {
		out[s] = struct{}{}
	}
	return out
}()

// Singularize maps a known plural unit word to its singular form using the
// built-in table. Matching is exact and case-sensitive; anything else is
// returned unchanged.
//
// Examples:
//   - Singularize("cups") -> "cup"
//   - Singularize("Cups") -> "Cups"
//   - Singularize("flour") -> "flour"
func Singularize(word string) string {
	if singular, ok := pluralUnits[word]; ok {
		return singular
	}
	return word
}

// Lexicon is a plural -> singular table: the built-in entries plus any
// corpus-specific additions.
type Lexicon struct {
	plurals   map[string]string
	singulars map[string]struct{}
}

// Default returns a lexicon holding only the built-in table.
func Default() *Lexicon {
	lex := &Lexicon{
		plurals:   make(map[string]string, len(pluralUnits)),
		singulars: make(map[string]struct{}, len(singularUnits)),
	}
	for p, s := range pluralUnits {
		lex.plurals[p] = s
		lex.singulars[s] = struct{}{}
	}
	return lex
}

// LoadFromYAML loads a lexicon from a YAML file, layered over the built-in
// table. Entries in the file win over built-in ones.
//
// Expected format:
//
//	plurals:
//	  - singular: can
//	    plurals: [cans, tins]
//	  - singular: leaf
//	    plurals: [leaves]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Plurals []struct {
			Singular string   `yaml:"singular"`
			Plurals  []string `yaml:"plurals"`
		} `yaml:"plurals"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	lex := Default()
	for _, entry := range config.Plurals {
		lex.AddPlurals(entry.Singular, entry.Plurals)
	}
	return lex, nil
}

// AddPlurals registers plural spellings for a singular word.
// Empty strings and identity mappings are skipped.
func (l *Lexicon) AddPlurals(singular string, plurals []string) {
	if singular == "" {
		return
	}
	l.singulars[singular] = struct{}{}
	for _, p := range plurals {
		if p == "" || p == singular {
			continue
		}
		l.plurals[p] = singular
	}
}

// Singularize returns the singular form of word, or word itself when the
// lexicon does not know it. A nil lexicon uses the built-in table.
func (l *Lexicon) Singularize(word string) string {
	if l == nil {
		return Singularize(word)
	}
	if singular, ok := l.plurals[word]; ok {
		return singular
	}
	return word
}

// IsUnit reports whether word is a known unit, singular or plural.
func (l *Lexicon) IsUnit(word string) bool {
	if l == nil {
		_, plural := pluralUnits[word]
		_, singular := singularUnits[word]
		return plural || singular
	}
	if _, ok := l.plurals[word]; ok {
		return true
	}
	_, ok := l.singulars[word]
	return ok
}

// Size returns the number of plural spellings known.
func (l *Lexicon) Size() int {
	if l == nil {
		return len(pluralUnits)
	}
	return len(l.plurals)
}
