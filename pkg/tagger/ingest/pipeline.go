package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/lexicon"
)

// Pipeline orchestrates the preparation of ingredient lines:
// raw text → normalization → tokenization → feature extraction
type Pipeline struct {
	lexicon *lexicon.Lexicon // Optional: singularize tokens before labeling
}

// NewPipeline creates a preparation pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// SetLexicon makes the pipeline singularize tokens before features are
// extracted. Models trained on raw tokens should leave this unset.
func (p *Pipeline) SetLexicon(lex *lexicon.Lexicon) {
	p.lexicon = lex
}

// Token is a positioned token with its feature vector.
type Token struct {
	Text     string
	Index    int // 1-based
	Features []string
}

// ProcessedLine is one input line after preparation.
type ProcessedLine struct {
	Raw        string
	Normalized string
	Tokens     []Token
}

// Texts returns the token texts in order.
func (l ProcessedLine) Texts() []string {
	out := make([]string, len(l.Tokens))
	for i, tok := range l.Tokens {
		out[i] = tok.Text
	}
	return out
}

// LabeledLine pairs an ingredient line with one gold tag per token.
type LabeledLine struct {
	Text string
	Tags []string
}

// Process runs one line through the pipeline.
func (p *Pipeline) Process(raw string) ProcessedLine {
	// 1. Normalize (markup, unicode fractions)
	normalized := Normalize(raw)

	// 2. Tokenize (unit slashes, fraction clumps, punctuation)
	texts := Tokenize(normalized)
	if p.lexicon != nil {
		for i, t := range texts {
			texts[i] = p.lexicon.Singularize(t)
		}
	}

	// 3. Features, computed against the whole line
	tokens := make([]Token, len(texts))
	for i, t := range texts {
		tokens[i] = Token{
			Text:     t,
			Index:    i + 1,
			Features: Features(t, i+1, texts),
		}
	}

	return ProcessedLine{
		Raw:        raw,
		Normalized: normalized,
		Tokens:     tokens,
	}
}

// ProcessAll runs every line through the pipeline, keeping order.
func (p *Pipeline) ProcessAll(lines []string) []ProcessedLine {
	out := make([]ProcessedLine, len(lines))
	for i, line := range lines {
		out[i] = p.Process(line)
	}
	return out
}

// Export renders lines in the tab-separated per-token format consumed by
// the labeling model, one blank line after each ingredient line.
func (p *Pipeline) Export(lines []string) string {
	var buf strings.Builder
	_ = p.WriteExport(&buf, lines)
	return buf.String()
}

// WriteExport streams the Export format to w. Lines with no tokens are
// skipped entirely.
func (p *Pipeline) WriteExport(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		processed := p.Process(line)
		if err := writeLine(bw, processed, nil); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Format renders already processed lines in the Export format.
func Format(lines []ProcessedLine) string {
	var buf strings.Builder
	bw := bufio.NewWriter(&buf)
	for _, line := range lines {
		_ = writeLine(bw, line, nil)
	}
	_ = bw.Flush()
	return buf.String()
}

// ExportLabeled renders training data: the Export format with the gold
// tag appended as a final column.
func (p *Pipeline) ExportLabeled(examples []LabeledLine) (string, error) {
	var buf strings.Builder
	bw := bufio.NewWriter(&buf)
	for i, ex := range examples {
		processed := p.Process(ex.Text)
		if len(ex.Tags) != len(processed.Tokens) {
			return "", fmt.Errorf("example %d: %d tags for %d tokens: %w",
				i+1, len(ex.Tags), len(processed.Tokens), internalerr.ErrInvalidInput)
		}
		if err := writeLine(bw, processed, ex.Tags); err != nil {
			return "", err
		}
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeLine(w *bufio.Writer, line ProcessedLine, tags []string) error {
	if len(line.Tokens) == 0 {
		return nil
	}
	for i, tok := range line.Tokens {
		cols := make([]string, 0, FeatureCount+2)
		cols = append(cols, tok.Text)
		cols = append(cols, tok.Features...)
		if tags != nil {
			cols = append(cols, tags[i])
		}
		if _, err := w.WriteString(strings.Join(cols, "\t") + "\n"); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}
