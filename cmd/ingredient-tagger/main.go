package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/tagger/internal/lines"
	"github.com/cognicore/tagger/internal/recipehtml"
	"github.com/cognicore/tagger/pkg/tagger"
	"github.com/cognicore/tagger/pkg/tagger/config"
	"github.com/cognicore/tagger/pkg/tagger/ingest"
)

const usage = `usage: ingredient-tagger <command> [flags]

commands:
  export   print the labeler feature stream for ingredient lines
  tag      tag ingredient lines and print JSON records
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "export":
		err = runExport(os.Args[2:], os.Stdout)
	case "tag":
		err = runTag(context.Background(), os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		logrus.Fatal(err)
	}
}

// inputFlags are shared by every command that reads ingredient lines.
type inputFlags struct {
	in   string
	page string
}

func (f *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.in, "in", "", "Input file: plain text or .jsonl (default stdin)")
	fs.StringVar(&f.page, "html", "", "Recipe HTML page to extract ingredient lines from")
}

func (f *inputFlags) load() ([]string, error) {
	switch {
	case f.page != "":
		file, err := os.Open(f.page)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return recipehtml.ExtractLines(file)
	case f.in != "":
		return lines.Load(f.in)
	default:
		return lines.ReadText(os.Stdin)
	}
}

func runExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var input inputFlags
	input.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := input.load()
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	return ingest.NewPipeline().WriteExport(out, in)
}

func runTag(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tag", flag.ContinueOnError)
	var (
		input      inputFlags
		configPath = fs.String("config", "", "Config file (optional, defaults to the heuristic labeler)")
		dbPath     = fs.String("db", "", "Batch database path (optional)")
		verbose    = fs.Bool("v", false, "Verbose logging")
	)
	input.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	in, err := input.load()
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	t, cleanup, err := buildTagger(ctx, *configPath, *dbPath)
	if err != nil {
		return err
	}
	defer cleanup()

	batchID, results, err := t.TagAndStore(ctx, in)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"batch":   batchID,
		"lines":   len(in),
		"records": len(results),
	}).Info("tagged ingredients")

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// buildTagger loads configuration and wires a Tagger. The returned
// cleanup closes the store.
func buildTagger(ctx context.Context, configPath, dbPath string) (*tagger.Tagger, func(), error) {
	loader := config.Loader{ConfigPath: configPath, DBPath: dbPath}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	t := tagger.New(tagger.Options{
		Pipeline: comp.Pipeline,
		Labeler:  comp.Labeler,
		Lexicon:  comp.Lexicon,
		Store:    comp.Store,
	})
	cleanup := func() {
		if err := t.Close(); err != nil {
			logrus.WithError(err).Warn("close tagger")
		}
	}
	return t, cleanup, nil
}
