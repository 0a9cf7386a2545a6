package api

import "time"

type TokenizeRequest struct {
	Text  string `json:"text"`
	Vocab string `json:"vocab,omitempty"`
}

// TokenizeResponse is what the web form shows: the ids, how many there
// are, the decoded text and whether it matches the input.
type TokenizeResponse struct {
	ID          string          `json:"id"`
	Object      string          `json:"object"`
	Vocab       string          `json:"vocab"`
	Tokens      []int           `json:"tokens"`
	TokenCount  int             `json:"token_count"`
	Decoded     string          `json:"decoded"`
	Roundtrip   bool            `json:"roundtrip"`
	Diagnostics []DiagnosticDTO `json:"diagnostics,omitempty"`
}

type EncodeRequest struct {
	Text  string `json:"text"`
	Vocab string `json:"vocab,omitempty"`
}

type EncodeResponse struct {
	Object     string `json:"object"`
	Vocab      string `json:"vocab"`
	Tokens     []int  `json:"tokens"`
	TokenCount int    `json:"token_count"`
}

type DecodeRequest struct {
	Tokens []int  `json:"tokens"`
	Vocab  string `json:"vocab,omitempty"`
}

type DecodeResponse struct {
	Object      string          `json:"object"`
	Vocab       string          `json:"vocab"`
	Text        string          `json:"text"`
	Diagnostics []DiagnosticDTO `json:"diagnostics,omitempty"`
}

type DiagnosticDTO struct {
	Kind    string `json:"kind"`
	Index   int    `json:"index"`
	ID      int    `json:"id"`
	Message string `json:"message"`
}

type VocabListResponse struct {
	Object string   `json:"object"`
	Data   []string `json:"data"`
}

type VocabDetail struct {
	Object       string      `json:"object"`
	Name         string      `json:"name"`
	Merges       int         `json:"merges"`
	VocabSize    int         `json:"vocab_size"`
	AlphabetSize int         `json:"alphabet_size,omitempty"`
	Compression  float64     `json:"compression,omitempty"`
	TrainedAt    *time.Time  `json:"trained_at,omitempty"`
	Rules        []MergeRule `json:"rules"`
}

type MergeRule struct {
	Rank  int    `json:"rank"`
	ID    int    `json:"id"`
	Left  int    `json:"left"`
	Right int    `json:"right"`
	Text  string `json:"text"`
	UTF8  bool   `json:"utf8"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
