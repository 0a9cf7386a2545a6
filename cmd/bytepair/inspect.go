package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samcharles93/bytepair/internal/api"
	"github.com/samcharles93/bytepair/internal/bpe"
	"github.com/urfave/cli/v3"
)

func inspectCmd() *cli.Command {
	var limit int64

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show a vocab's merge rules in rank order",
		Flags: append(vocabFlags(),
			&cli.Int64Flag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "number of merges to list (-1 = all)",
				Value:       50,
				Destination: &limit,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withVocab(ctx, cmd, func(v *api.Vocab) error {
				fmt.Printf("vocab:       %s\n", v.Path)
				fmt.Printf("merges:      %d\n", v.Table.Len())
				fmt.Printf("vocab size:  %d\n", v.Table.VocabSize())
				if m := v.Meta; m != nil {
					fmt.Printf("alphabet:    %d\n", m.AlphabetSize)
					fmt.Printf("compression: %.2fX\n", m.Compression)
					fmt.Printf("stopped:     %s\n", m.StopReason)
					if !m.TrainedAt.IsZero() {
						fmt.Printf("trained at:  %s\n", m.TrainedAt.Format("2006-01-02 15:04:05 MST"))
					}
				}
				fmt.Println()
				renderMerges(v, int(limit))
				return nil
			})
		},
	}
}

func renderMerges(v *api.Vocab, limit int) {
	merges := v.Table.Merges()
	if limit >= 0 && limit < len(merges) {
		merges = merges[:limit]
	}

	data := make([][]string, 0, len(merges))
	for i, p := range merges {
		id := bpe.ByteTokens + i
		raw, _ := v.Decoder.DecodeBytes([]int{id})
		data = append(data, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(id),
			p.String(),
			strconv.Quote(string(raw)),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"RANK", "ID", "PAIR", "BYTES"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
