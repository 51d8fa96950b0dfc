package decode

import (
	"io"

	"github.com/cognicore/tagger/pkg/tagger/lexicon"
)

// Decoder turns tagged sequences into ingredient records.
type Decoder struct {
	lex *lexicon.Lexicon
}

// NewDecoder creates a decoder that singularizes units with lex
// (nil uses the built-in table).
func NewDecoder(lex *lexicon.Lexicon) *Decoder {
	return &Decoder{lex: lex}
}

// Decode returns one Ingredient per tagged line, in order.
func (d *Decoder) Decode(lines []TaggedLine) []Ingredient {
	out := make([]Ingredient, 0, len(lines))
	b := NewBuilder(d.lex)
	for _, line := range lines {
		b.Begin(line.Score)
		for _, tok := range line.Tokens {
			b.Feed(tok)
		}
		if rec, ok := b.Flush(); ok {
			out = append(out, rec)
		}
	}
	return out
}

// DecodeStream parses a labeling response and decodes it.
func (d *Decoder) DecodeStream(r io.Reader) ([]Ingredient, error) {
	lines, err := ParseStream(r)
	if err != nil {
		return nil, err
	}
	return d.Decode(lines), nil
}

// Decode decodes tagged lines with the built-in unit table.
func Decode(lines []TaggedLine) []Ingredient {
	return NewDecoder(nil).Decode(lines)
}

// DecodeStream parses and decodes a labeling response with the built-in
// unit table.
func DecodeStream(r io.Reader) ([]Ingredient, error) {
	return NewDecoder(nil).DecodeStream(r)
}
