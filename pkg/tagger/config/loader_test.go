package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/labeler"
	"github.com/cognicore/tagger/pkg/tagger/labeler/crfpp"
	"github.com/cognicore/tagger/pkg/tagger/labeler/heuristic"
	"github.com/cognicore/tagger/pkg/tagger/labeler/remote"
	"github.com/cognicore/tagger/pkg/tagger/store/memstore"
)

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Store.Close()

	if _, ok := comp.Labeler.(*heuristic.Labeler); !ok {
		t.Errorf("expected heuristic labeler, got %T", comp.Labeler)
	}
	if _, ok := comp.Store.(*memstore.Store); !ok {
		t.Errorf("expected memory store, got %T", comp.Store)
	}
	if comp.Pipeline == nil || comp.Lexicon == nil {
		t.Error("pipeline and lexicon must be set")
	}
}

func TestLoaderFullConfig(t *testing.T) {
	lexPath := writeFile(t, "units.yaml", `
plurals:
  - singular: tin
    plurals: [tins]
`)
	cfgPath := writeFile(t, "tagger.yaml", `
labeler:
  backend: crfpp
  model: model.crfmodel
  binary: /opt/crf_test
  rate: 10
lexicon: `+lexPath+`
singularize_tokens: true
`)
	dbPath := filepath.Join(t.TempDir(), "batches.db")

	comp, err := (&Loader{ConfigPath: cfgPath, DBPath: dbPath}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Store.Close()

	if _, ok := comp.Labeler.(*labeler.Throttled); !ok {
		t.Errorf("expected throttled labeler, got %T", comp.Labeler)
	}

	if comp.Config.Store.Path != dbPath {
		t.Errorf("DBPath should override store.path, got %q", comp.Config.Store.Path)
	}
	if _, ok := comp.Store.(*memstore.Store); ok {
		t.Error("expected sqlite store when a path is set")
	}
	if comp.Lexicon.Singularize("tins") != "tin" {
		t.Error("custom lexicon not loaded")
	}

	line := comp.Pipeline.Process("2 tins tomatoes")
	if line.Tokens[1].Text != "tin" {
		t.Errorf("expected singularized token, got %q", line.Tokens[1].Text)
	}
}

func TestLoaderErrors(t *testing.T) {
	ctx := context.Background()

	_, err := (&Loader{ConfigPath: writeFile(t, "bad.yaml", "labeler:\n  backend: nope\n")}).Load(ctx)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	cfgPath := writeFile(t, "lex.yaml", "lexicon: "+filepath.Join(t.TempDir(), "missing.yaml")+"\n")
	_, err = (&Loader{ConfigPath: cfgPath}).Load(ctx)
	if err == nil || !strings.Contains(err.Error(), "load lexicon") {
		t.Errorf("expected lexicon error, got %v", err)
	}
}

func TestBuildLabeler(t *testing.T) {
	lab, err := buildLabeler(LabelerConfig{Backend: BackendCRFPP, Model: "m", Binary: "/bin/crf"}, nil)
	if err != nil {
		t.Fatalf("buildLabeler: %v", err)
	}
	crf, ok := lab.(*crfpp.Labeler)
	if !ok || crf.Binary != "/bin/crf" || crf.ModelPath != "m" {
		t.Errorf("unexpected crfpp labeler %#v", lab)
	}

	lab, err = buildLabeler(LabelerConfig{Backend: BackendRemote, URL: "http://x", APIKey: "k"}, nil)
	if err != nil {
		t.Fatalf("buildLabeler: %v", err)
	}
	rc, ok := lab.(*remote.Client)
	if !ok || rc.BaseURL != "http://x" || rc.APIKey != "k" {
		t.Errorf("unexpected remote labeler %#v", lab)
	}

	if _, err := buildLabeler(LabelerConfig{Backend: "onnx"}, nil); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("unknown backend: expected ErrInvalidConfig, got %v", err)
	}
}
