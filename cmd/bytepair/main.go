package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samcharles93/bytepair/internal/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:   "bytepair",
		Usage:  "Byte-level BPE tokenizer",
		Flags:  loggingFlags(),
		Before: setupLogging,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			trainCmd(),
			encodeCmd(),
			decodeCmd(),
			inspectCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging builds the logger from flags and config and stores it in
// the context every subcommand receives.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	applyLogConfig(cmd, LoadConfig())
	level := logLevel
	if debug {
		level = "debug"
	}
	return logger.WithContext(ctx, logger.ForFormat(os.Stderr, logFormat, level)), nil
}
