package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/samcharles93/bytepair/internal/api"
	"github.com/samcharles93/bytepair/internal/logger"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		cacheSize   int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the tokenizer REST API and playground",
		Flags: []cli.Flag{
			vocabFlag(),
			vocabDirFlag(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "cache-size",
				Usage:       "encode results kept in memory (0 = disabled)",
				Value:       1024,
				Destination: &cacheSize,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, LoadConfig(), &addr, &cacheSize)

			provider := api.NewCachedVocabProvider(api.VocabProviderConfig{
				DefaultVocabPath: vocabPath,
				VocabDir:         vocabDir,
				Logger:           log,
			})
			service, err := api.NewTokenizerService(provider, int(cacheSize))
			if err != nil {
				return err
			}
			server := api.NewServer(service)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "vocab", vocabPath, "vocab_dir", vocabDir)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
