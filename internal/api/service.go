package api

import (
	"context"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"
	"github.com/samcharles93/bytepair/internal/bpe"
)

// TokenizerService runs encode/decode against vocabs from a provider.
// Encodings are cached per (vocab, text) when the cache is enabled.
type TokenizerService struct {
	provider VocabProvider
	cache    *lru.Cache
}

// NewTokenizerService creates a service with an encode cache holding up
// to cacheSize entries. cacheSize <= 0 disables caching.
func NewTokenizerService(provider VocabProvider, cacheSize int) (*TokenizerService, error) {
	s := &TokenizerService{provider: provider}
	if cacheSize > 0 {
		c, err := lru.New(cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	return s, nil
}

type encodeKey struct {
	path string
	text string
}

func (s *TokenizerService) encode(v *Vocab, text string) []int {
	if s.cache == nil {
		return bpe.Encode(text, v.Table)
	}
	key := encodeKey{path: v.Path, text: text}
	if cached, ok := s.cache.Get(key); ok {
		return append([]int(nil), cached.([]int)...)
	}
	ids := bpe.Encode(text, v.Table)
	s.cache.Add(key, append([]int(nil), ids...))
	return ids
}

func (s *TokenizerService) Tokenize(ctx context.Context, req TokenizeRequest) (*TokenizeResponse, error) {
	var resp *TokenizeResponse
	err := s.provider.WithVocab(ctx, req.Vocab, func(v *Vocab) error {
		ids := s.encode(v, req.Text)
		decoded, diags := v.Decoder.Decode(ids)
		resp = &TokenizeResponse{
			ID:          newTokenizationID(),
			Object:      "tokenization",
			Vocab:       v.Name,
			Tokens:      nonNil(ids),
			TokenCount:  len(ids),
			Decoded:     decoded,
			Roundtrip:   decoded == req.Text,
			Diagnostics: diagnosticDTOs(diags),
		}
		return nil
	})
	return resp, err
}

func (s *TokenizerService) Encode(ctx context.Context, req EncodeRequest) (*EncodeResponse, error) {
	var resp *EncodeResponse
	err := s.provider.WithVocab(ctx, req.Vocab, func(v *Vocab) error {
		ids := s.encode(v, req.Text)
		resp = &EncodeResponse{
			Object:     "encoding",
			Vocab:      v.Name,
			Tokens:     nonNil(ids),
			TokenCount: len(ids),
		}
		return nil
	})
	return resp, err
}

func (s *TokenizerService) Decode(ctx context.Context, req DecodeRequest) (*DecodeResponse, error) {
	var resp *DecodeResponse
	err := s.provider.WithVocab(ctx, req.Vocab, func(v *Vocab) error {
		text, diags := v.Decoder.Decode(req.Tokens)
		resp = &DecodeResponse{
			Object:      "decoding",
			Vocab:       v.Name,
			Text:        text,
			Diagnostics: diagnosticDTOs(diags),
		}
		return nil
	})
	return resp, err
}

func (s *TokenizerService) ListVocabs() ([]string, error) {
	return s.provider.ListVocabs()
}

// Describe returns vocab metadata and up to limit merge rules in rank
// order. limit < 0 returns every rule.
func (s *TokenizerService) Describe(ctx context.Context, name string, limit int) (*VocabDetail, error) {
	var resp *VocabDetail
	err := s.provider.WithVocab(ctx, name, func(v *Vocab) error {
		merges := v.Table.Merges()
		if limit >= 0 && limit < len(merges) {
			merges = merges[:limit]
		}
		rules := make([]MergeRule, len(merges))
		for i, p := range merges {
			id := bpe.ByteTokens + i
			raw, _ := v.Decoder.DecodeBytes([]int{id})
			rules[i] = MergeRule{
				Rank:  i + 1,
				ID:    id,
				Left:  p.Left,
				Right: p.Right,
				Text:  string(raw),
				UTF8:  utf8.Valid(raw),
			}
		}
		resp = &VocabDetail{
			Object:    "vocab",
			Name:      v.Name,
			Merges:    v.Table.Len(),
			VocabSize: v.Table.VocabSize(),
			Rules:     rules,
		}
		if v.Meta != nil {
			resp.AlphabetSize = v.Meta.AlphabetSize
			resp.Compression = v.Meta.Compression
			if !v.Meta.TrainedAt.IsZero() {
				at := v.Meta.TrainedAt
				resp.TrainedAt = &at
			}
		}
		return nil
	})
	return resp, err
}

func diagnosticDTOs(diags bpe.Diagnostics) []DiagnosticDTO {
	if len(diags) == 0 {
		return nil
	}
	out := make([]DiagnosticDTO, len(diags))
	for i, d := range diags {
		out[i] = DiagnosticDTO{
			Kind:    d.Kind.String(),
			Index:   d.Index,
			ID:      d.ID,
			Message: d.Error(),
		}
	}
	return out
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
