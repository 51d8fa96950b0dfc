package main

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/tagger/internal/api"
	"github.com/cognicore/tagger/pkg/tagger"
	"github.com/cognicore/tagger/pkg/tagger/config"
)

func main() {
	ctx := context.Background()

	loader := config.Loader{
		ConfigPath: strings.TrimSpace(os.Getenv("TAGGER_CONFIG")),
		DBPath:     strings.TrimSpace(os.Getenv("TAGGER_DB_PATH")),
	}
	comp, err := loader.Load(ctx)
	if err != nil {
		logrus.Fatalf("load configuration: %v", err)
	}

	t := tagger.New(tagger.Options{
		Pipeline: comp.Pipeline,
		Labeler:  comp.Labeler,
		Lexicon:  comp.Lexicon,
		Store:    comp.Store,
	})
	defer t.Close()

	var origins []string
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	server, err := api.NewServer(api.Config{Tagger: t, AllowedOrigins: origins})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "2000"
	}

	logrus.WithFields(logrus.Fields{
		"backend": comp.Config.Labeler.Backend,
		"store":   comp.Config.Store.Path,
	}).Infof("starting tagger server on :%s", port)
	if err := server.Router().Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
