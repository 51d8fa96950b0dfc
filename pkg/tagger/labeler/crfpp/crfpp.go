package crfpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
)

// DefaultBinary is the CRF++ test command looked up on PATH.
const DefaultBinary = "crf_test"

// Labeler runs a trained CRF++ model through the crf_test command.
type Labeler struct {
	Binary    string // defaults to DefaultBinary
	ModelPath string
	TempDir   string // defaults to os.TempDir()
}

// New creates a labeler for the given model file.
func New(modelPath string) *Labeler {
	return &Labeler{Binary: DefaultBinary, ModelPath: modelPath}
}

// Label writes the request to a temporary file and runs
// "crf_test -v 1 -m <model> <file>", returning its standard output.
func (l *Labeler) Label(ctx context.Context, request string) (string, error) {
	if l.ModelPath == "" {
		return "", fmt.Errorf("crfpp: model path required: %w", internalerr.ErrInvalidConfig)
	}

	tmp, err := os.CreateTemp(l.TempDir, "tagger-*.crf")
	if err != nil {
		return "", fmt.Errorf("crfpp: create request file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(request); err != nil {
		tmp.Close()
		return "", fmt.Errorf("crfpp: write request file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("crfpp: close request file: %w", err)
	}

	args := []string{"-v", "1", "-m", l.ModelPath, tmp.Name()}
	cmd := exec.CommandContext(ctx, l.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{
		"binary": l.binary(),
		"model":  l.ModelPath,
		"bytes":  len(request),
	}).Debug("running crf_test")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("crfpp: %s: %v: %s: %w", l.binary(), err, msg, internalerr.ErrLabelerUnavailable)
		}
		return "", fmt.Errorf("crfpp: %s: %v: %w", l.binary(), err, internalerr.ErrLabelerUnavailable)
	}
	return stdout.String(), nil
}

func (l *Labeler) binary() string {
	if l.Binary != "" {
		return l.Binary
	}
	return DefaultBinary
}
