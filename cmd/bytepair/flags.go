package main

import "github.com/urfave/cli/v3"

var (
	vocabPath string
	vocabDir  string
	logLevel  string
	logFormat string
	debug     bool
)

func vocabFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "vocab",
		Aliases:     []string{"v"},
		Usage:       "path to a vocab .json file",
		Destination: &vocabPath,
	}
}

func vocabDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "vocab-dir",
		Usage:       "directory containing .json vocabs",
		Destination: &vocabDir,
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
