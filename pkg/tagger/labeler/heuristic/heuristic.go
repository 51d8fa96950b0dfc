package heuristic

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/tagger/pkg/tagger/decode"
	"github.com/cognicore/tagger/pkg/tagger/lexicon"
)

// Labeler is a rule-based tagger in pure Go. It answers in the same
// format as crf_test -v 1, so it can stand in for a trained model when
// none is available.
//
// Rules, applied left to right per sequence:
//   - numbers (and clumped fractions) are B-QTY
//   - known unit words are B-UNIT
//   - the first remaining word is B-NAME, following words I-NAME
//   - commas, parentheses, can sizes ("#10") and anything after the first
//     comma are OTHER
type Labeler struct {
	lex *lexicon.Lexicon
}

// New creates a heuristic labeler recognising units from lex
// (nil uses the built-in table).
func New(lex *lexicon.Lexicon) *Labeler {
	return &Labeler{lex: lex}
}

// fillers are skipped before a name starts ("1 cup of flour").
var fillers = map[string]struct{}{
	"of": {}, "a": {}, "an": {}, "the": {},
}

// Label implements labeler.Labeler.
func (l *Labeler) Label(ctx context.Context, request string) (string, error) {
	var out strings.Builder
	var seq []string

	flush := func() {
		if len(seq) == 0 {
			return
		}
		l.writeSequence(&out, seq)
		seq = seq[:0]
	}

	scanner := bufio.NewScanner(strings.NewReader(request))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		seq = append(seq, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("heuristic labeler: %w", err)
	}
	flush()

	return out.String(), nil
}

func (l *Labeler) writeSequence(out *strings.Builder, seq []string) {
	tags := l.tagSequence(seq)

	score := 0.5
	for _, tag := range tags {
		if tag == decode.TagBeginName {
			score = 1.0
			break
		}
	}

	fmt.Fprintf(out, "# %.6f\n", score)
	for i, line := range seq {
		fmt.Fprintf(out, "%s\t%s/%.6f\n", line, tags[i], score)
	}
	out.WriteString("\n")
}

func (l *Labeler) tagSequence(seq []string) []string {
	tags := make([]string, len(seq))
	inName := false
	nameDone := false
	depth := 0

	for i, line := range seq {
		text, _, _ := strings.Cut(line, "\t")

		switch {
		case text == "(":
			depth++
			tags[i] = decode.TagOther
		case text == ")":
			if depth > 0 {
				depth--
			}
			tags[i] = decode.TagOther
		case text == ",":
			tags[i] = decode.TagOther
			if inName {
				nameDone = true
			}
			inName = false
		case depth > 0 || nameDone || isSizeMark(text):
			tags[i] = decode.TagOther
		case isQuantity(text):
			tags[i] = decode.TagBeginQty
			inName = false
		case l.lex.IsUnit(text) || l.lex.IsUnit(strings.ToLower(text)):
			tags[i] = decode.TagBeginUnit
			inName = false
		case inName:
			tags[i] = decode.TagInName
		default:
			if _, ok := fillers[strings.ToLower(text)]; ok {
				tags[i] = decode.TagOther
				continue
			}
			tags[i] = decode.TagBeginName
			inName = true
		}
	}
	return tags
}

// isSizeMark reports whether text is a container size such as "#10".
func isSizeMark(text string) bool {
	if len(text) < 2 || text[0] != '#' {
		return false
	}
	for _, r := range text[1:] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isQuantity reports whether text looks like "2", "1.5", "3/4" or "1$1/2".
func isQuantity(text string) bool {
	if text == "" || !unicode.IsDigit(rune(text[0])) {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) && r != '.' && r != '/' && r != '$' && r != '-' {
			return false
		}
	}
	return true
}
