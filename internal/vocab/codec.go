// Package vocab persists merge tables as JSON.
//
// The file is a single object mapping "(left,right)" to the merge id:
//
//	{
//	  "(97,97)": 256,
//	  "(97,98)": 257
//	}
//
// Keys are written in rank order. Whitespace inside the parentheses is
// accepted on load.
package vocab

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samcharles93/bytepair/internal/bpe"
)

var ErrInvalidPair = errors.New("vocab: invalid pair key")

// FormatPair renders p as "(left,right)".
func FormatPair(p bpe.Pair) string {
	return "(" + strconv.Itoa(p.Left) + "," + strconv.Itoa(p.Right) + ")"
}

// ParsePair is the inverse of FormatPair.
func ParsePair(s string) (bpe.Pair, error) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(s), "(")
	if !ok {
		return bpe.Pair{}, fmt.Errorf("%w: %q", ErrInvalidPair, s)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return bpe.Pair{}, fmt.Errorf("%w: %q", ErrInvalidPair, s)
	}
	left, right, ok := strings.Cut(inner, ",")
	if !ok {
		return bpe.Pair{}, fmt.Errorf("%w: %q", ErrInvalidPair, s)
	}
	l, err := parseID(left)
	if err != nil {
		return bpe.Pair{}, fmt.Errorf("%w: %q: %v", ErrInvalidPair, s, err)
	}
	r, err := parseID(right)
	if err != nil {
		return bpe.Pair{}, fmt.Errorf("%w: %q: %v", ErrInvalidPair, s, err)
	}
	return bpe.Pair{Left: l, Right: r}, nil
}

func parseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty id")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("unexpected %q in id", c)
		}
	}
	return strconv.Atoi(s)
}

// Marshal encodes t in rank order.
func Marshal(t *bpe.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range t.Merges() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(FormatPair(p))
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.WriteString(strconv.Itoa(bpe.ByteTokens + i))
	}
	if t.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a table written by Marshal.
func Unmarshal(data []byte) (*bpe.Table, error) {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse vocab json: %w", err)
	}
	m := make(map[bpe.Pair]int, len(raw))
	for key, id := range raw {
		p, err := ParsePair(key)
		if err != nil {
			return nil, err
		}
		if prev, ok := m[p]; ok {
			return nil, fmt.Errorf("%w: %s listed twice (%d, %d)", bpe.ErrInvalidTable, key, prev, id)
		}
		m[p] = id
	}
	return bpe.TableFromMap(m)
}
