package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samcharles93/bytepair/internal/api"
	"github.com/samcharles93/bytepair/internal/bpe"
	"github.com/urfave/cli/v3"
)

func encodeCmd() *cli.Command {
	var (
		file      string
		showCount bool
	)

	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode text into token ids",
		ArgsUsage: "[TEXT...]",
		Flags: append(vocabFlags(),
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "read the text from a file instead of arguments",
				Destination: &file,
			},
			&cli.BoolFlag{
				Name:        "count",
				Usage:       "print the token count after the ids",
				Destination: &showCount,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text := strings.Join(cmd.Args().Slice(), " ")
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			}

			return withVocab(ctx, cmd, func(v *api.Vocab) error {
				ids := bpe.Encode(text, v.Table)
				fmt.Println(formatIDs(ids))
				if showCount {
					fmt.Printf("tokens: %d\n", len(ids))
				}
				return nil
			})
		},
	}
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
