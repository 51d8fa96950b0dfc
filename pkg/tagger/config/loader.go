package config

import (
	"context"
	"fmt"

	"github.com/cognicore/tagger/pkg/tagger/ingest"
	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/labeler"
	"github.com/cognicore/tagger/pkg/tagger/labeler/crfpp"
	"github.com/cognicore/tagger/pkg/tagger/labeler/heuristic"
	"github.com/cognicore/tagger/pkg/tagger/labeler/remote"
	"github.com/cognicore/tagger/pkg/tagger/lexicon"
	"github.com/cognicore/tagger/pkg/tagger/store"
	"github.com/cognicore/tagger/pkg/tagger/store/memstore"
	"github.com/cognicore/tagger/pkg/tagger/store/sqlite"
)

// Loader loads the configuration file and constructs components
type Loader struct {
	ConfigPath string // optional; Default() is used when empty
	DBPath     string // optional; overrides store.path
}

// Components holds all loaded configuration components
type Components struct {
	Config   Config
	Pipeline *ingest.Pipeline
	Lexicon  *lexicon.Lexicon
	Labeler  labeler.Labeler
	Store    store.Store
}

// Load reads the configuration and returns initialized components.
// The caller owns Components.Store and must close it.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = *loaded
	}
	if l.DBPath != "" {
		cfg.Store.Path = l.DBPath
	}

	comp := &Components{Config: cfg}

	// Load lexicon
	if cfg.Lexicon != "" {
		lex, err := lexicon.LoadFromYAML(cfg.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.Default()
	}

	comp.Pipeline = ingest.NewPipeline()
	if cfg.SingularizeTokens {
		comp.Pipeline.SetLexicon(comp.Lexicon)
	}

	// Build labeler
	lab, err := buildLabeler(cfg.Labeler, comp.Lexicon)
	if err != nil {
		return nil, err
	}
	comp.Labeler = labeler.Throttle(lab, cfg.Labeler.Rate, cfg.Labeler.Burst)

	// Open store
	if cfg.Store.Path != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		comp.Store = st
	} else {
		comp.Store = memstore.New()
	}

	return comp, nil
}

func buildLabeler(cfg LabelerConfig, lex *lexicon.Lexicon) (labeler.Labeler, error) {
	switch cfg.Backend {
	case BackendCRFPP:
		lab := crfpp.New(cfg.Model)
		if cfg.Binary != "" {
			lab.Binary = cfg.Binary
		}
		return lab, nil
	case BackendRemote:
		return &remote.Client{BaseURL: cfg.URL, APIKey: cfg.APIKey}, nil
	case BackendHeuristic, "":
		return heuristic.New(lex), nil
	default:
		return nil, fmt.Errorf("unknown labeler backend %q: %w", cfg.Backend, internalerr.ErrInvalidConfig)
	}
}
