package lines

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Item is one JSONL input record.
type Item struct {
	Text string `json:"text"`
}

// Load reads ingredient lines from a file. Files ending in .jsonl hold one
// {"text": ...} object per line; anything else is plain text with one
// ingredient per line.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return ReadJSONL(f, path)
	}
	return ReadText(f)
}

// ReadText returns the non-blank lines of r.
func ReadText(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}

// ReadJSONL decodes {"text": ...} records, skipping malformed ones with a
// warning. name is used in log messages.
func ReadJSONL(r io.Reader, name string) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"file": name,
				"line": lineNum,
			}).Warn("skipping malformed JSON line")
			continue
		}
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		out = append(out, item.Text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", name)
	}
	return out, nil
}
