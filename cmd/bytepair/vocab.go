package main

import (
	"context"

	"github.com/samcharles93/bytepair/internal/api"
	"github.com/samcharles93/bytepair/internal/logger"
	"github.com/urfave/cli/v3"
)

// withVocab resolves --vocab/--vocab-dir/--name the same way the server
// resolves a request's vocab, and runs fn with the loaded table.
func withVocab(ctx context.Context, cmd *cli.Command, fn func(v *api.Vocab) error) error {
	applyVocabConfig(cmd, LoadConfig())
	provider := api.NewCachedVocabProvider(api.VocabProviderConfig{
		DefaultVocabPath: vocabPath,
		VocabDir:         vocabDir,
		Logger:           logger.FromContext(ctx),
	})
	return provider.WithVocab(ctx, cmd.String("name"), fn)
}

func vocabFlags() []cli.Flag {
	return []cli.Flag{
		vocabFlag(),
		vocabDirFlag(),
		&cli.StringFlag{
			Name:  "name",
			Usage: "vocab name to pick from --vocab-dir",
		},
	}
}
