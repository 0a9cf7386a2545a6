package main

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/samcharles93/bytepair/internal/bpe"
	"github.com/samcharles93/bytepair/internal/corpus"
	"github.com/samcharles93/bytepair/internal/logger"
	"github.com/samcharles93/bytepair/internal/vocab"
	"github.com/urfave/cli/v3"
)

const sampleTokensShown = 20

func trainCmd() *cli.Command {
	defaults := bpe.DefaultTrainParams()
	var (
		corpusPath     string
		format         string
		normalize      string
		outPath        string
		vocabSize      int64
		minFrequency   int64
		maxCompression float64
		sample         int64
	)

	return &cli.Command{
		Name:  "train",
		Usage: "Learn a merge table from a corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "corpus",
				Aliases:     []string{"c"},
				Usage:       "path to a .csv or text corpus",
				Required:    true,
				Destination: &corpusPath,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "corpus format (auto, csv, text)",
				Value:       string(corpus.FormatAuto),
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "normalize",
				Usage:       "unicode normalization applied before training (nfc, nfkc, nfd, nfkd)",
				Destination: &normalize,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "where to write the vocab .json",
				Value:       "vocab.json",
				Destination: &outPath,
			},
			&cli.Int64Flag{
				Name:        "vocab-size",
				Usage:       "target vocabulary size (merges plus distinct corpus bytes)",
				Value:       int64(defaults.TargetVocabSize),
				Destination: &vocabSize,
			},
			&cli.Int64Flag{
				Name:        "min-frequency",
				Usage:       "stop once the best pair occurs fewer times than this",
				Value:       int64(defaults.MinFrequency),
				Destination: &minFrequency,
			},
			&cli.Float64Flag{
				Name:        "max-compression",
				Usage:       "stop once bytes per token reaches this (0 = disabled)",
				Value:       defaults.MaxCompressionRatio,
				Destination: &maxCompression,
			},
			&cli.Int64Flag{
				Name:        "sample",
				Usage:       "characters of the corpus used for the round-trip check (0 = skip)",
				Value:       200,
				Destination: &sample,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyTrainConfig(cmd, LoadConfig(), &vocabSize, &minFrequency, &maxCompression, &normalize)

			text, err := corpus.Read(corpusPath, corpus.Options{
				Format:    corpus.Format(format),
				Normalize: normalize,
			})
			if err != nil {
				return fmt.Errorf("read corpus: %w", err)
			}
			log.Info("corpus loaded", "path", corpusPath, "bytes", len(text))

			params := bpe.TrainParams{
				TargetVocabSize:     int(vocabSize),
				MinFrequency:        int(minFrequency),
				MaxCompressionRatio: maxCompression,
				Progress: func(s bpe.TrainStep) {
					log.Debug("merge",
						"n", s.Merge,
						"pair", s.Pair.String(),
						"id", s.ID,
						"freq", s.Frequency,
						"tokens", s.Tokens,
						"compression", s.Compression,
					)
				},
			}
			start := time.Now()
			res := bpe.Train(text, params)
			log.Info("training finished",
				"merges", res.Table.Len(),
				"stop", string(res.Stop),
				"elapsed", time.Since(start),
			)

			meta := vocab.NewMeta(res, params, time.Now())
			meta.Corpus = corpusPath
			meta.Normalize = normalize
			if err := vocab.Save(outPath, res.Table, &meta); err != nil {
				return fmt.Errorf("save vocab: %w", err)
			}
			if err := verifySaved(outPath, res.Table); err != nil {
				return err
			}
			log.Info("vocab written", "path", outPath, "meta", vocab.MetaPath(outPath))

			fmt.Printf("Vocabulary size: %d\n", res.Table.VocabSize())
			fmt.Printf("Compression ratio: %.2fX\n", res.Compression)

			if sample <= 0 {
				return nil
			}
			return printRoundTrip(corpus.Sample(text, int(sample)), res.Table)
		},
	}
}

// verifySaved reads the vocab back and checks it matches what was trained.
func verifySaved(path string, want *bpe.Table) error {
	got, err := vocab.Load(path)
	if err != nil {
		return fmt.Errorf("reload vocab: %w", err)
	}
	if !got.Equal(want) {
		return fmt.Errorf("vocab %s does not match the trained table", path)
	}
	return nil
}

func printRoundTrip(text string, t *bpe.Table) error {
	rep := bpe.RoundTrip(text, t, nil)
	shown := rep.Tokens
	if len(shown) > sampleTokensShown {
		shown = shown[:sampleTokensShown]
	}
	fmt.Println("\nTesting with sample text:")
	fmt.Println("Original:", text)
	fmt.Printf("\nEncoded (first %d tokens): %v\n", sampleTokensShown, shown)
	fmt.Println("\nDecoded:", rep.Decoded)
	fmt.Println("Successful roundtrip:", rep.OK)
	if !rep.OK {
		return fmt.Errorf("round trip failed on %d-character sample", utf8.RuneCountInString(text))
	}
	return nil
}
