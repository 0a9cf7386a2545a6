package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samcharles93/bytepair/internal/api"
	"github.com/urfave/cli/v3"
)

func decodeCmd() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode token ids back into text",
		ArgsUsage: "IDS...",
		Flags:     vocabFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ids, err := parseIDs(cmd.Args().Slice())
			if err != nil {
				return err
			}
			return withVocab(ctx, cmd, func(v *api.Vocab) error {
				text, _ := v.Decoder.Decode(ids)
				fmt.Println(text)
				return nil
			})
		},
	}
}

// parseIDs accepts ids separated by spaces, commas or brackets, so the
// output of encode and JSON arrays both paste in.
func parseIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		fields := strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || r == '[' || r == ']' || r == ' ' || r == '\t' || r == '\n'
		})
		for _, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("invalid token id %q", f)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
