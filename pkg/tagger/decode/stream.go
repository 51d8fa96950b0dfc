package decode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
)

const maxStreamLine = 1 << 20

// ParseStream reads a labeling response in the crf_test -v 1 layout:
//
//	# 0.478712
//	2$1/2	I1	L8	NoCAP	NoPAREN	B-QTY/0.981
//	cups	I2	L8	NoCAP	NoPAREN	B-UNIT/0.990
//
//	# 0.912000
//	...
//
// A header may also carry an ordinal before the score ("# 0 0.478712").
// Lines starting with '#' that contain a tab are token lines.
// Blank lines close the current sequence.
func ParseStream(r io.Reader) ([]TaggedLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLine)

	var (
		lines   []TaggedLine
		current *TaggedLine
		lineNum int
	)

	closeCurrent := func() {
		if current != nil {
			lines = append(lines, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		lineNum++
		text := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(text) == "" {
			closeCurrent()
			continue
		}

		if isHeader(text) {
			score, err := parseHeader(text)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			closeCurrent()
			current = &TaggedLine{Score: score}
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: token outside a sequence: %w", lineNum, internalerr.ErrMalformedStream)
		}
		current.Tokens = append(current.Tokens, parseTokenLine(text))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	closeCurrent()
	return lines, nil
}

// isHeader reports whether text is a sequence header. Headers are space
// separated; token lines always carry tabs, so a token such as "#10"
// (a can size) is not mistaken for one.
func isHeader(text string) bool {
	return strings.HasPrefix(text, "#") && !strings.Contains(text, "\t")
}

func parseHeader(text string) (float64, error) {
	fields := strings.Fields(strings.TrimPrefix(text, "#"))
	if len(fields) == 0 {
		return 0, fmt.Errorf("header %q has no score: %w", text, internalerr.ErrMalformedStream)
	}
	raw := fields[0]
	if len(fields) > 1 {
		raw = fields[1]
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("header %q: bad score: %w", text, internalerr.ErrMalformedStream)
	}
	return score, nil
}

func parseTokenLine(text string) TaggedToken {
	var fields []string
	if strings.Contains(text, "\t") {
		fields = strings.Split(text, "\t")
	} else {
		fields = strings.Fields(text)
	}

	tok := TaggedToken{Text: strings.TrimSpace(fields[0])}
	if len(fields) < 2 {
		return tok
	}

	tok.Features = fields[1 : len(fields)-1]
	tok.Tag, tok.Prob = splitTag(strings.TrimSpace(fields[len(fields)-1]))
	return tok
}

// splitTag separates "B-NAME/0.97" into its tag and probability.
func splitTag(col string) (string, float64) {
	idx := strings.LastIndex(col, "/")
	if idx < 0 {
		return col, 0
	}
	prob, err := strconv.ParseFloat(col[idx+1:], 64)
	if err != nil {
		return col, 0
	}
	return col[:idx], prob
}
